package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"dinehub/backend/internal/dto"
	"dinehub/backend/internal/model"
	"dinehub/backend/internal/repository"
)

// ── 门店模块业务错误 ──

var (
	ErrRestaurantNotFound       = errors.New("餐厅不存在")
	ErrLocationNotFound         = errors.New("门店不存在")
	ErrLocationSlugTaken        = errors.New("门店 slug 在该餐厅内已被占用")
	ErrInvalidSlug              = errors.New("slug 格式无效：仅允许小写字母、数字和连字符")
	ErrInvalidOperatingHours    = errors.New("营业时间格式无效")
	ErrCannotDeleteOnlyLocation = errors.New("不能删除餐厅的最后一个门店")
	ErrCannotDemoteOnlyPrimary  = errors.New("没有可接替的门店，不能取消主门店标记")
)

var (
	slugPattern      = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	timeOfDayPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
)

// LocationService 门店业务接口
//
// 主门店不变量（每个有门店的餐厅恰好一个主门店）由仓储层事务保证；
// 本层负责输入校验、slug 唯一性检查和业务错误翻译。
type LocationService interface {
	Create(ctx context.Context, restaurantID string, req *dto.CreateLocationRequest, callerID string) (*dto.LocationResponse, error)
	GetByID(ctx context.Context, id string) (*dto.LocationResponse, error)
	List(ctx context.Context, restaurantID string, req *dto.LocationListRequest) ([]dto.LocationResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateLocationRequest, callerID string) (*dto.LocationResponse, error)
	SetPrimary(ctx context.Context, id string, callerID string) (*dto.LocationResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
	GetPrimary(ctx context.Context, restaurantID string) (*dto.LocationResponse, error)
	Stats(ctx context.Context, restaurantID string) (*dto.LocationStatsResponse, error)
}

type locationService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewLocationService 创建 LocationService 实例
func NewLocationService(repo *repository.Repository, logger *zap.Logger) LocationService {
	return &locationService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *locationService) Create(ctx context.Context, restaurantID string, req *dto.CreateLocationRequest, callerID string) (*dto.LocationResponse, error) {
	slug := strings.ToLower(strings.TrimSpace(req.Slug))
	if !slugPattern.MatchString(slug) {
		return nil, ErrInvalidSlug
	}
	if err := validateOperatingHours(req.OperatingHours); err != nil {
		return nil, err
	}

	exists, err := s.repo.Restaurant.Exists(ctx, restaurantID)
	if err != nil {
		s.logger.Error("检查餐厅存在性失败", zap.String("restaurant_id", restaurantID), zap.Error(err))
		return nil, err
	}
	if !exists {
		return nil, ErrRestaurantNotFound
	}

	taken, err := s.repo.Location.SlugExists(ctx, restaurantID, slug, "")
	if err != nil {
		s.logger.Error("检查门店 slug 失败", zap.Error(err))
		return nil, err
	}
	if taken {
		return nil, ErrLocationSlugTaken
	}

	status := req.Status
	if status == "" {
		status = model.LocationStatusActive
	}

	loc := &model.Location{
		RestaurantID:   restaurantID,
		Name:           req.Name,
		Slug:           slug,
		AddressLine1:   req.AddressLine1,
		AddressLine2:   req.AddressLine2,
		City:           req.City,
		State:          req.State,
		PostalCode:     req.PostalCode,
		OperatingHours: hoursToModel(req.OperatingHours),
		Features:       datatypes.JSONMap(req.Features),
		Status:         status,
		IsPrimary:      req.IsPrimary,
	}
	loc.CreatedBy = &callerID
	loc.UpdatedBy = &callerID

	if err := s.repo.Location.Create(ctx, loc); err != nil {
		s.logger.Error("创建门店失败", zap.String("restaurant_id", restaurantID), zap.Error(err))
		return nil, err
	}

	return s.toLocationResponse(loc), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *locationService) GetByID(ctx context.Context, id string) (*dto.LocationResponse, error) {
	loc, err := s.repo.Location.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLocationNotFound
		}
		s.logger.Error("查询门店失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.toLocationResponse(loc), nil
}

// ────────────────────── List ──────────────────────

func (s *locationService) List(ctx context.Context, restaurantID string, req *dto.LocationListRequest) ([]dto.LocationResponse, error) {
	exists, err := s.repo.Restaurant.Exists(ctx, restaurantID)
	if err != nil {
		s.logger.Error("检查餐厅存在性失败", zap.String("restaurant_id", restaurantID), zap.Error(err))
		return nil, err
	}
	if !exists {
		return nil, ErrRestaurantNotFound
	}

	locations, err := s.repo.Location.ListByRestaurant(ctx, restaurantID, req.Status)
	if err != nil {
		s.logger.Error("列出门店失败", zap.String("restaurant_id", restaurantID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.LocationResponse, 0, len(locations))
	for i := range locations {
		result = append(result, *s.toLocationResponse(&locations[i]))
	}

	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *locationService) Update(ctx context.Context, id string, req *dto.UpdateLocationRequest, callerID string) (*dto.LocationResponse, error) {
	loc, err := s.repo.Location.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLocationNotFound
		}
		s.logger.Error("查询门店失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Slug != nil {
		slug := strings.ToLower(strings.TrimSpace(*req.Slug))
		if !slugPattern.MatchString(slug) {
			return nil, ErrInvalidSlug
		}
		if !strings.EqualFold(slug, loc.Slug) {
			taken, err := s.repo.Location.SlugExists(ctx, loc.RestaurantID, slug, loc.LocationID)
			if err != nil {
				s.logger.Error("检查门店 slug 失败", zap.Error(err))
				return nil, err
			}
			if taken {
				return nil, ErrLocationSlugTaken
			}
		}
		loc.Slug = slug
	}
	if req.OperatingHours != nil {
		if err := validateOperatingHours(req.OperatingHours); err != nil {
			return nil, err
		}
		loc.OperatingHours = hoursToModel(req.OperatingHours)
	}
	if req.Name != nil {
		loc.Name = *req.Name
	}
	if req.AddressLine1 != nil {
		loc.AddressLine1 = *req.AddressLine1
	}
	if req.AddressLine2 != nil {
		loc.AddressLine2 = *req.AddressLine2
	}
	if req.City != nil {
		loc.City = *req.City
	}
	if req.State != nil {
		loc.State = *req.State
	}
	if req.PostalCode != nil {
		loc.PostalCode = *req.PostalCode
	}
	if req.Features != nil {
		loc.Features = datatypes.JSONMap(req.Features)
	}
	if req.Status != nil {
		loc.Status = *req.Status
	}

	loc.UpdatedBy = &callerID

	// 主标记变更：升主走清除-设置事务；降主必须先把主标记
	// 原子地转移给一个兄弟门店，餐厅不允许出现零主门店
	switch {
	case req.IsPrimary != nil && *req.IsPrimary && !loc.IsPrimary:
		if err := s.repo.Location.SaveAsPrimary(ctx, loc); err != nil {
			s.logger.Error("设为主门店失败", zap.String("id", id), zap.Error(err))
			return nil, err
		}
	case req.IsPrimary != nil && !*req.IsPrimary && loc.IsPrimary:
		if err := s.demoteToSibling(ctx, loc); err != nil {
			return nil, err
		}
		loc.IsPrimary = false
		if err := s.saveLocation(ctx, loc, id); err != nil {
			return nil, err
		}
	default:
		if err := s.saveLocation(ctx, loc, id); err != nil {
			return nil, err
		}
	}

	return s.toLocationResponse(loc), nil
}

// demoteToSibling 将主门店标记转移给最早创建的 active 兄弟门店
func (s *locationService) demoteToSibling(ctx context.Context, loc *model.Location) error {
	siblings, err := s.repo.Location.ListByRestaurant(ctx, loc.RestaurantID, "")
	if err != nil {
		s.logger.Error("列出门店失败", zap.String("restaurant_id", loc.RestaurantID), zap.Error(err))
		return err
	}

	var candidate *model.Location
	for i := range siblings {
		if siblings[i].LocationID == loc.LocationID {
			continue
		}
		if siblings[i].Status == model.LocationStatusActive {
			candidate = &siblings[i]
			break
		}
		if candidate == nil {
			candidate = &siblings[i]
		}
	}
	if candidate == nil {
		return ErrCannotDemoteOnlyPrimary
	}

	if _, err := s.repo.Location.SetPrimary(ctx, candidate.LocationID); err != nil {
		s.logger.Error("转移主门店失败",
			zap.String("from", loc.LocationID),
			zap.String("to", candidate.LocationID),
			zap.Error(err))
		return err
	}
	return nil
}

func (s *locationService) saveLocation(ctx context.Context, loc *model.Location, id string) error {
	if err := s.repo.Location.Save(ctx, loc); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 加载与写入之间行被删除，向调用方暴露而不是静默吞掉
			return ErrLocationNotFound
		}
		s.logger.Error("更新门店失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── SetPrimary ──────────────────────

func (s *locationService) SetPrimary(ctx context.Context, id string, callerID string) (*dto.LocationResponse, error) {
	loc, err := s.repo.Location.SetPrimary(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLocationNotFound
		}
		s.logger.Error("设置主门店失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("主门店已变更",
		zap.String("restaurant_id", loc.RestaurantID),
		zap.String("location_id", loc.LocationID),
		zap.String("caller_id", callerID),
	)

	return s.toLocationResponse(loc), nil
}

// ────────────────────── Delete ──────────────────────

func (s *locationService) Delete(ctx context.Context, id string, callerID string) error {
	err := s.repo.Location.Delete(ctx, id, callerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLocationNotFound
		}
		if errors.Is(err, repository.ErrOnlyLocation) {
			return ErrCannotDeleteOnlyLocation
		}
		s.logger.Error("删除门店失败", zap.String("id", id), zap.Error(err))
		return err
	}

	return nil
}

// ────────────────────── GetPrimary ──────────────────────

func (s *locationService) GetPrimary(ctx context.Context, restaurantID string) (*dto.LocationResponse, error) {
	loc, err := s.repo.Location.GetPrimary(ctx, restaurantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLocationNotFound
		}
		s.logger.Error("查询主门店失败", zap.String("restaurant_id", restaurantID), zap.Error(err))
		return nil, err
	}

	return s.toLocationResponse(loc), nil
}

// ────────────────────── Stats ──────────────────────

func (s *locationService) Stats(ctx context.Context, restaurantID string) (*dto.LocationStatsResponse, error) {
	exists, err := s.repo.Restaurant.Exists(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrRestaurantNotFound
	}

	total, err := s.repo.Location.CountByRestaurant(ctx, restaurantID)
	if err != nil {
		s.logger.Error("统计门店总数失败", zap.Error(err))
		return nil, err
	}
	active, err := s.repo.Location.CountByStatus(ctx, restaurantID, model.LocationStatusActive)
	if err != nil {
		s.logger.Error("统计 active 门店失败", zap.Error(err))
		return nil, err
	}

	stats := &dto.LocationStatsResponse{
		RestaurantID: restaurantID,
		Total:        total,
		Active:       active,
		Inactive:     total - active,
	}

	primary, err := s.repo.Location.GetPrimary(ctx, restaurantID)
	if err == nil {
		stats.PrimaryLocationID = primary.LocationID
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return stats, nil
}

// ── 内部辅助方法 ──

func validateOperatingHours(p *dto.OperatingHoursPayload) error {
	if p == nil {
		return ErrInvalidOperatingHours
	}
	days := []*dto.DayHoursPayload{
		p.Monday, p.Tuesday, p.Wednesday, p.Thursday,
		p.Friday, p.Saturday, p.Sunday, p.Holidays,
	}
	for _, d := range days {
		if d == nil {
			return ErrInvalidOperatingHours
		}
		if d.Closed {
			continue
		}
		if !timeOfDayPattern.MatchString(d.Open) || !timeOfDayPattern.MatchString(d.Close) {
			return ErrInvalidOperatingHours
		}
		// 开门须早于关门；零填充的 HH:MM 字典序即时间序
		if d.Open >= d.Close {
			return ErrInvalidOperatingHours
		}
	}
	return nil
}

func hoursToModel(p *dto.OperatingHoursPayload) model.OperatingHours {
	day := func(d *dto.DayHoursPayload) model.DayHours {
		if d == nil {
			return model.DayHours{Closed: true}
		}
		return model.DayHours{Open: d.Open, Close: d.Close, Closed: d.Closed}
	}
	return model.OperatingHours{
		Monday:    day(p.Monday),
		Tuesday:   day(p.Tuesday),
		Wednesday: day(p.Wednesday),
		Thursday:  day(p.Thursday),
		Friday:    day(p.Friday),
		Saturday:  day(p.Saturday),
		Sunday:    day(p.Sunday),
		Holidays:  day(p.Holidays),
	}
}

func hoursToPayload(h model.OperatingHours) *dto.OperatingHoursPayload {
	day := func(d model.DayHours) *dto.DayHoursPayload {
		return &dto.DayHoursPayload{Open: d.Open, Close: d.Close, Closed: d.Closed}
	}
	return &dto.OperatingHoursPayload{
		Monday:    day(h.Monday),
		Tuesday:   day(h.Tuesday),
		Wednesday: day(h.Wednesday),
		Thursday:  day(h.Thursday),
		Friday:    day(h.Friday),
		Saturday:  day(h.Saturday),
		Sunday:    day(h.Sunday),
		Holidays:  day(h.Holidays),
	}
}

func (s *locationService) toLocationResponse(loc *model.Location) *dto.LocationResponse {
	return &dto.LocationResponse{
		ID:             loc.LocationID,
		RestaurantID:   loc.RestaurantID,
		Name:           loc.Name,
		Slug:           loc.Slug,
		AddressLine1:   loc.AddressLine1,
		AddressLine2:   loc.AddressLine2,
		City:           loc.City,
		State:          loc.State,
		PostalCode:     loc.PostalCode,
		OperatingHours: hoursToPayload(loc.OperatingHours),
		Features:       map[string]interface{}(loc.Features),
		Status:         loc.Status,
		IsPrimary:      loc.IsPrimary,
		CreatedAt:      loc.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:      loc.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
