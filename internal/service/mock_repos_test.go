package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"dinehub/backend/internal/model"
	"dinehub/backend/internal/repository"
)

// ── Mock RestaurantRepository ──

type mockRestaurantRepo struct {
	restaurants map[string]*model.Restaurant
	locations   *mockLocationRepo
	seq         int
}

func newMockRestaurantRepo(locations *mockLocationRepo) *mockRestaurantRepo {
	return &mockRestaurantRepo{
		restaurants: make(map[string]*model.Restaurant),
		locations:   locations,
	}
}

func (m *mockRestaurantRepo) Create(_ context.Context, r *model.Restaurant) error {
	if r.RestaurantID == "" {
		m.seq++
		r.RestaurantID = fmt.Sprintf("rest-%03d", m.seq)
	}
	m.restaurants[r.RestaurantID] = r
	return nil
}

func (m *mockRestaurantRepo) CreateWithInitialLocation(ctx context.Context, rest *model.Restaurant, loc *model.Location) error {
	if err := m.Create(ctx, rest); err != nil {
		return err
	}
	loc.RestaurantID = rest.RestaurantID
	loc.IsPrimary = true
	return m.locations.Create(ctx, loc)
}

func (m *mockRestaurantRepo) GetByID(_ context.Context, id string) (*model.Restaurant, error) {
	if r, ok := m.restaurants[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRestaurantRepo) GetBySlug(_ context.Context, slug string) (*model.Restaurant, error) {
	for _, r := range m.restaurants {
		if strings.EqualFold(r.Slug, slug) {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRestaurantRepo) List(_ context.Context, includeInactive bool) ([]model.Restaurant, error) {
	var result []model.Restaurant
	for _, r := range m.restaurants {
		if !includeInactive && !r.IsActive {
			continue
		}
		result = append(result, *r)
	}
	return result, nil
}

func (m *mockRestaurantRepo) Update(_ context.Context, r *model.Restaurant) error {
	m.restaurants[r.RestaurantID] = r
	return nil
}

func (m *mockRestaurantRepo) Exists(_ context.Context, id string) (bool, error) {
	_, ok := m.restaurants[id]
	return ok, nil
}

func (m *mockRestaurantRepo) SlugExists(_ context.Context, slug string, excludeID string) (bool, error) {
	for _, r := range m.restaurants {
		if r.RestaurantID == excludeID {
			continue
		}
		if strings.EqualFold(r.Slug, slug) {
			return true, nil
		}
	}
	return false, nil
}

// ── Mock LocationRepository ──
// 与真实实现一致：Create/SetPrimary/Delete 内部维护
// “每餐厅恰好一个主门店”的不变量。

type mockLocationRepo struct {
	locations map[string]*model.Location
	order     []string // 创建顺序，代替 created_at 排序
	seq       int
}

func newMockLocationRepo() *mockLocationRepo {
	return &mockLocationRepo{locations: make(map[string]*model.Location)}
}

func (m *mockLocationRepo) Create(_ context.Context, loc *model.Location) error {
	if loc.LocationID == "" {
		m.seq++
		loc.LocationID = fmt.Sprintf("loc-%03d", m.seq)
	}
	loc.CreatedAt = time.Now().Add(time.Duration(m.seq) * time.Second)

	count := 0
	for _, l := range m.locations {
		if l.RestaurantID == loc.RestaurantID {
			count++
		}
	}
	if count == 0 {
		loc.IsPrimary = true
	} else if loc.IsPrimary {
		m.clearPrimary(loc.RestaurantID, loc.LocationID)
	}

	m.locations[loc.LocationID] = loc
	m.order = append(m.order, loc.LocationID)
	return nil
}

func (m *mockLocationRepo) clearPrimary(restaurantID, excludeID string) {
	for _, l := range m.locations {
		if l.RestaurantID == restaurantID && l.LocationID != excludeID {
			l.IsPrimary = false
		}
	}
}

func (m *mockLocationRepo) GetByID(_ context.Context, id string) (*model.Location, error) {
	if l, ok := m.locations[id]; ok {
		return l, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLocationRepo) GetPrimary(_ context.Context, restaurantID string) (*model.Location, error) {
	for _, l := range m.locations {
		if l.RestaurantID == restaurantID && l.IsPrimary {
			return l, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLocationRepo) ListByRestaurant(_ context.Context, restaurantID string, status string) ([]model.Location, error) {
	var result []model.Location
	// 主门店置顶，其余按创建顺序
	for _, id := range m.order {
		l, ok := m.locations[id]
		if !ok || l.RestaurantID != restaurantID || !l.IsPrimary {
			continue
		}
		if status != "" && l.Status != status {
			continue
		}
		result = append(result, *l)
	}
	for _, id := range m.order {
		l, ok := m.locations[id]
		if !ok || l.RestaurantID != restaurantID || l.IsPrimary {
			continue
		}
		if status != "" && l.Status != status {
			continue
		}
		result = append(result, *l)
	}
	return result, nil
}

func (m *mockLocationRepo) Save(_ context.Context, loc *model.Location) error {
	if _, ok := m.locations[loc.LocationID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.locations[loc.LocationID] = loc
	return nil
}

func (m *mockLocationRepo) SaveAsPrimary(_ context.Context, loc *model.Location) error {
	if _, ok := m.locations[loc.LocationID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.clearPrimary(loc.RestaurantID, loc.LocationID)
	loc.IsPrimary = true
	m.locations[loc.LocationID] = loc
	return nil
}

func (m *mockLocationRepo) SetPrimary(_ context.Context, id string) (*model.Location, error) {
	l, ok := m.locations[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	m.clearPrimary(l.RestaurantID, id)
	l.IsPrimary = true
	return l, nil
}

func (m *mockLocationRepo) Delete(_ context.Context, id string, _ string) error {
	l, ok := m.locations[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}

	count := 0
	for _, sib := range m.locations {
		if sib.RestaurantID == l.RestaurantID {
			count++
		}
	}
	if count <= 1 {
		return repository.ErrOnlyLocation
	}

	wasPrimary := l.IsPrimary
	delete(m.locations, id)

	if wasPrimary {
		// 最早创建的 active 兄弟优先，否则任意状态
		var candidate *model.Location
		for _, sid := range m.order {
			sib, ok := m.locations[sid]
			if !ok || sib.RestaurantID != l.RestaurantID {
				continue
			}
			if sib.Status == model.LocationStatusActive {
				candidate = sib
				break
			}
			if candidate == nil {
				candidate = sib
			}
		}
		if candidate != nil {
			candidate.IsPrimary = true
		}
	}
	return nil
}

func (m *mockLocationRepo) SlugExists(_ context.Context, restaurantID, slug, excludeID string) (bool, error) {
	for _, l := range m.locations {
		if l.RestaurantID != restaurantID || l.LocationID == excludeID {
			continue
		}
		if strings.EqualFold(l.Slug, slug) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockLocationRepo) CountByRestaurant(_ context.Context, restaurantID string) (int64, error) {
	var n int64
	for _, l := range m.locations {
		if l.RestaurantID == restaurantID {
			n++
		}
	}
	return n, nil
}

func (m *mockLocationRepo) CountByStatus(_ context.Context, restaurantID, status string) (int64, error) {
	var n int64
	for _, l := range m.locations {
		if l.RestaurantID == restaurantID && l.Status == status {
			n++
		}
	}
	return n, nil
}

// ── Mock AssignmentRepository ──
// 同样维护“每用户恰好一条主分配”的不变量。

type mockAssignmentRepo struct {
	assignments map[string]*model.UserLocationAssignment // key: userID|locationID
	order       []string
	seq         int
}

func newMockAssignmentRepo() *mockAssignmentRepo {
	return &mockAssignmentRepo{assignments: make(map[string]*model.UserLocationAssignment)}
}

func assignmentKey(userID, locationID string) string {
	return userID + "|" + locationID
}

func (m *mockAssignmentRepo) Create(_ context.Context, a *model.UserLocationAssignment) error {
	if a.AssignmentID == "" {
		m.seq++
		a.AssignmentID = fmt.Sprintf("asg-%03d", m.seq)
	}

	count := 0
	for _, e := range m.assignments {
		if e.UserID == a.UserID {
			count++
		}
	}
	if count == 0 {
		a.IsPrimaryLocation = true
	} else if a.IsPrimaryLocation {
		for _, e := range m.assignments {
			if e.UserID == a.UserID {
				e.IsPrimaryLocation = false
			}
		}
	}

	key := assignmentKey(a.UserID, a.LocationID)
	m.assignments[key] = a
	m.order = append(m.order, key)
	return nil
}

func (m *mockAssignmentRepo) GetByUserAndLocation(_ context.Context, userID, locationID string) (*model.UserLocationAssignment, error) {
	if a, ok := m.assignments[assignmentKey(userID, locationID)]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) SetPrimary(_ context.Context, userID, locationID string) (bool, error) {
	target, ok := m.assignments[assignmentKey(userID, locationID)]
	if !ok {
		return false, nil
	}
	for _, e := range m.assignments {
		if e.UserID == userID {
			e.IsPrimaryLocation = false
		}
	}
	target.IsPrimaryLocation = true
	return true, nil
}

func (m *mockAssignmentRepo) Remove(_ context.Context, userID, locationID string) (bool, error) {
	key := assignmentKey(userID, locationID)
	if _, ok := m.assignments[key]; !ok {
		return false, nil
	}
	delete(m.assignments, key)
	return true, nil
}

func (m *mockAssignmentRepo) Exists(_ context.Context, userID, locationID string) (bool, error) {
	_, ok := m.assignments[assignmentKey(userID, locationID)]
	return ok, nil
}

func (m *mockAssignmentRepo) ListByUser(_ context.Context, userID string) ([]model.UserLocationAssignment, error) {
	var result []model.UserLocationAssignment
	for _, key := range m.order {
		a, ok := m.assignments[key]
		if ok && a.UserID == userID && a.IsPrimaryLocation {
			result = append(result, *a)
		}
	}
	for _, key := range m.order {
		a, ok := m.assignments[key]
		if ok && a.UserID == userID && !a.IsPrimaryLocation {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (m *mockAssignmentRepo) ListByLocation(_ context.Context, locationID string) ([]model.UserLocationAssignment, error) {
	var result []model.UserLocationAssignment
	for _, key := range m.order {
		a, ok := m.assignments[key]
		if ok && a.LocationID == locationID {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (m *mockAssignmentRepo) UpdateRole(_ context.Context, assignmentID, roleID, updatedBy string) error {
	for _, a := range m.assignments {
		if a.AssignmentID == assignmentID {
			a.RoleID = roleID
			a.UpdatedBy = &updatedBy
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// ── Mock RoleRepository ──

type mockRoleRepo struct {
	roles map[string]*model.Role
	seq   int
}

func newMockRoleRepo() *mockRoleRepo {
	return &mockRoleRepo{roles: make(map[string]*model.Role)}
}

func (m *mockRoleRepo) Create(_ context.Context, role *model.Role) error {
	if role.RoleID == "" {
		m.seq++
		role.RoleID = fmt.Sprintf("role-%03d", m.seq)
	}
	m.roles[role.RoleID] = role
	return nil
}

func (m *mockRoleRepo) Update(_ context.Context, role *model.Role) error {
	m.roles[role.RoleID] = role
	return nil
}

func (m *mockRoleRepo) GetByID(_ context.Context, id string) (*model.Role, error) {
	if r, ok := m.roles[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRoleRepo) FindByName(_ context.Context, name string) (*model.Role, error) {
	for _, r := range m.roles {
		if strings.EqualFold(r.Name, name) {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRoleRepo) ListActive(_ context.Context) ([]model.Role, error) {
	var result []model.Role
	for _, r := range m.roles {
		if r.IsActive {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockRoleRepo) ListByScope(_ context.Context, scope string) ([]model.Role, error) {
	var result []model.Role
	for _, r := range m.roles {
		if r.IsActive && r.Scope == scope {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockRoleRepo) ListAdmin(_ context.Context) ([]model.Role, error) {
	var result []model.Role
	for _, r := range m.roles {
		if r.IsActive && r.IsAdminRole {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockRoleRepo) Deactivate(_ context.Context, id string, updatedBy string) error {
	r, ok := m.roles[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	r.IsActive = false
	r.UpdatedBy = &updatedBy
	return nil
}

func (m *mockRoleRepo) NameExists(_ context.Context, name string, excludeID string) (bool, error) {
	for _, r := range m.roles {
		if r.RoleID == excludeID {
			continue
		}
		if strings.EqualFold(r.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
	seq   int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		m.seq++
		user.UserID = fmt.Sprintf("user-%03d", m.seq)
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

// ── 聚合辅助 ──

type mockRepos struct {
	repo        *repository.Repository
	restaurants *mockRestaurantRepo
	locations   *mockLocationRepo
	assignments *mockAssignmentRepo
	roles       *mockRoleRepo
	users       *mockUserRepo
}

func newMockRepos() *mockRepos {
	locations := newMockLocationRepo()
	restaurants := newMockRestaurantRepo(locations)
	assignments := newMockAssignmentRepo()
	roles := newMockRoleRepo()
	users := newMockUserRepo()

	return &mockRepos{
		repo: &repository.Repository{
			Restaurant: restaurants,
			Location:   locations,
			Assignment: assignments,
			Role:       roles,
			User:       users,
		},
		restaurants: restaurants,
		locations:   locations,
		assignments: assignments,
		roles:       roles,
		users:       users,
	}
}
