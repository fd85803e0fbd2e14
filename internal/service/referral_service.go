package service

import (
	"github.com/nivelup-next/internal/constants"
	"github.com/nivelup-next/internal/models"
	"github.com/nivelup-next/internal/repository"
)

// ReferralService 推荐关系图服务，负责祖先链与下级展开
type ReferralService struct {
	userRepo       repository.UserRepository
	codeRepo       repository.AffiliateCodeRepository
	commissionRepo repository.CommissionRepository
}

// NewReferralService 创建推荐关系服务
func NewReferralService(
	userRepo repository.UserRepository,
	codeRepo repository.AffiliateCodeRepository,
	commissionRepo repository.CommissionRepository,
) *ReferralService {
	return &ReferralService{userRepo: userRepo, codeRepo: codeRepo, commissionRepo: commissionRepo}
}

// ReferralAncestor 上级推荐人（含其推广码）
type ReferralAncestor struct {
	Level int
	User  models.User
	Code  *models.AffiliateCode
}

// AncestorsOf 返回用户向上最多 maxLevels 级推荐人，顺序为 L1 -> Ln。
// 没有上级不是错误，返回空切片；环形引用到访问过的节点即截断。
func (s *ReferralService) AncestorsOf(userID uint, maxLevels int) ([]ReferralAncestor, error) {
	if maxLevels <= 0 || maxLevels > constants.MaxCommissionLevels {
		maxLevels = constants.MaxCommissionLevels
	}
	ancestors := make([]ReferralAncestor, 0, maxLevels)
	if userID == 0 {
		return ancestors, nil
	}

	visited := map[uint]bool{userID: true}
	current, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrNotFound
	}

	for level := 1; level <= maxLevels; level++ {
		if current.ReferrerUserID == nil || *current.ReferrerUserID == 0 {
			break
		}
		parentID := *current.ReferrerUserID
		if visited[parentID] {
			break
		}
		visited[parentID] = true

		parent, err := s.userRepo.GetByID(parentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			break
		}
		ancestors = append(ancestors, ReferralAncestor{Level: level, User: *parent})
		current = parent
	}

	// 整条链的推广码一次批量加载
	ownerIDs := make([]uint, 0, len(ancestors))
	for i := range ancestors {
		ownerIDs = append(ownerIDs, ancestors[i].User.ID)
	}
	codes, err := s.codeRepo.GetByUserIDs(ownerIDs)
	if err != nil {
		return nil, err
	}
	codeByUser := make(map[uint]*models.AffiliateCode, len(codes))
	for i := range codes {
		codeByUser[codes[i].UserID] = &codes[i]
	}
	for i := range ancestors {
		ancestors[i].Code = codeByUser[ancestors[i].User.ID]
	}
	return ancestors, nil
}

// ReferralDescendant 下级用户
type ReferralDescendant struct {
	Level int
	User  models.User
}

// DescendantsOf 按层级展开推广码下的推荐网络，根节点不包含在结果中。
// level 为 0 时返回 1 到 maxLevels 全部层级。
func (s *ReferralService) DescendantsOf(codeID uint, level int) ([]ReferralDescendant, error) {
	code, err := s.codeRepo.GetByID(codeID)
	if err != nil {
		return nil, err
	}
	if code == nil {
		return nil, ErrNotFound
	}

	maxLevel := constants.MaxCommissionLevels
	if level < 0 || level > maxLevel {
		return nil, ErrNotFound
	}

	descendants := make([]ReferralDescendant, 0)
	seen := map[uint]bool{code.UserID: true}
	frontier := []uint{code.UserID}

	for depth := 1; depth <= maxLevel; depth++ {
		if len(frontier) == 0 {
			break
		}
		children, err := s.userRepo.ListByReferrerIDs(frontier)
		if err != nil {
			return nil, err
		}
		frontier = frontier[:0]
		for _, child := range children {
			if seen[child.ID] {
				continue
			}
			seen[child.ID] = true
			frontier = append(frontier, child.ID)
			if level == 0 || level == depth {
				descendants = append(descendants, ReferralDescendant{Level: depth, User: child})
			}
		}
		if level != 0 && depth >= level {
			break
		}
	}
	return descendants, nil
}

// ReferralNetworkItem 推广网络列表项
type ReferralNetworkItem struct {
	UserID                uint   `json:"user_id"`
	DisplayName           string `json:"display_name"`
	Level                 int    `json:"level"`
	JoinedAt              string `json:"joined_at"`
	CommissionEarnedCents int64  `json:"commission_earned_cents"`
}

// NetworkOf 返回推广码在指定层级的下级用户及其为码主带来的佣金。
// 佣金口径与余额一致：confirmed 与 paid 同等计入。
func (s *ReferralService) NetworkOf(rawCode string, level int) ([]ReferralNetworkItem, error) {
	code, err := s.codeRepo.GetByCode(rawCode)
	if err != nil {
		return nil, err
	}
	if code == nil {
		return nil, ErrNotFound
	}

	descendants, err := s.DescendantsOf(code.ID, level)
	if err != nil {
		return nil, err
	}

	sourceIDs := make([]uint, 0, len(descendants))
	for _, descendant := range descendants {
		sourceIDs = append(sourceIDs, descendant.User.ID)
	}
	earned, err := s.commissionRepo.SumBySourceUsers(code.UserID, sourceIDs, []string{
		constants.CommissionStatusConfirmed,
		constants.CommissionStatusPaid,
	})
	if err != nil {
		return nil, err
	}

	items := make([]ReferralNetworkItem, 0, len(descendants))
	for _, descendant := range descendants {
		items = append(items, ReferralNetworkItem{
			UserID:                descendant.User.ID,
			DisplayName:           descendant.User.DisplayName,
			Level:                 descendant.Level,
			JoinedAt:              descendant.User.CreatedAt.Format("2006-01-02"),
			CommissionEarnedCents: earned[descendant.User.ID],
		})
	}
	return items, nil
}
