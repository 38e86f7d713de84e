package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"dinehub/backend/internal/dto"
	"dinehub/backend/internal/model"
)

// ── 测试辅助 ──

func setupTestAssignmentService() (AssignmentService, *mockRepos) {
	mocks := newMockRepos()
	svc := NewAssignmentService(mocks.repo, zap.NewNop())
	return svc, mocks
}

func seedAssignmentFixtures(mocks *mockRepos) {
	mocks.users.users["user-001"] = &model.User{
		UserID: "user-001", Name: "张三", Email: "zhangsan@example.com", IsActive: true,
	}
	mocks.locations.locations["loc-001"] = &model.Location{
		LocationID: "loc-001", RestaurantID: "rest-001", Name: "总店", Slug: "main",
		Status: model.LocationStatusActive, IsPrimary: true,
	}
	mocks.locations.order = append(mocks.locations.order, "loc-001")
	mocks.locations.locations["loc-002"] = &model.Location{
		LocationID: "loc-002", RestaurantID: "rest-001", Name: "分店", Slug: "branch",
		Status: model.LocationStatusActive,
	}
	mocks.locations.order = append(mocks.locations.order, "loc-002")
	mocks.roles.roles["role-waiter"] = &model.Role{
		RoleID: "role-waiter", Name: "waiter", DisplayName: "服务员",
		Level: 1, Scope: model.RoleScopeLocation, IsActive: true,
	}
	mocks.roles.roles["role-manager"] = &model.Role{
		RoleID: "role-manager", Name: "manager", DisplayName: "店长",
		Level: 4, Scope: model.RoleScopeLocation, IsActive: true, IsAdminRole: true,
	}
	mocks.roles.roles["role-retired"] = &model.Role{
		RoleID: "role-retired", Name: "retired", DisplayName: "已停用",
		Level: 1, Scope: model.RoleScopeLocation, IsActive: false,
	}
}

// ── Assign 测试 ──

func TestAssignmentService_Assign_FirstForcedPrimary(t *testing.T) {
	svc, mocks := setupTestAssignmentService()
	seedAssignmentFixtures(mocks)

	// 首条分配即使不请求主门店也应被强制为主
	req := &dto.AssignUserRequest{RoleID: "role-waiter", IsPrimaryLocation: false}
	result, err := svc.Assign(context.Background(), "user-001", "loc-001", req, "admin-001")
	if err != nil {
		t.Fatalf("Assign 应成功: %v", err)
	}
	if !result.IsPrimaryLocation {
		t.Error("用户的首条分配应被强制为主门店分配")
	}
	if result.RoleName != "waiter" {
		t.Errorf("期望 RoleName=waiter，实际=%s", result.RoleName)
	}
}

func TestAssignmentService_Assign_SecondPrimaryClearsFirst(t *testing.T) {
	svc, mocks := setupTestAssignmentService()
	seedAssignmentFixtures(mocks)

	_, _ = svc.Assign(context.Background(), "user-001", "loc-001",
		&dto.AssignUserRequest{RoleID: "role-waiter"}, "admin-001")

	result, err := svc.Assign(context.Background(), "user-001", "loc-002",
		&dto.AssignUserRequest{RoleID: "role-waiter", IsPrimaryLocation: true}, "admin-001")
	if err != nil {
		t.Fatalf("Assign 应成功: %v", err)
	}
	if !result.IsPrimaryLocation {
		t.Error("新分配应为主门店分配")
	}

	old, _ := mocks.assignments.GetByUserAndLocation(context.Background(), "user-001", "loc-001")
	if old.IsPrimaryLocation {
		t.Error("原主分配应被清除主标记")
	}
	assertSinglePrimaryAssignment(t, mocks, "user-001")
}

func TestAssignmentService_Assign_Idempotent(t *testing.T) {
	svc, mocks := setupTestAssignmentService()
	seedAssignmentFixtures(mocks)

	first, _ := svc.Assign(context.Background(), "user-001", "loc-001",
		&dto.AssignUserRequest{RoleID: "role-waiter"}, "admin-001")

	// 重复授予同一 (user, location)：不产生第二条记录
	again, err := svc.Assign(context.Background(), "user-001", "loc-001",
		&dto.AssignUserRequest{RoleID: "role-waiter"}, "admin-001")
	if err != nil {
		t.Fatalf("重复 Assign 应成功: %v", err)
	}
	if again.ID != first.ID {
		t.Errorf("重复授予应返回原记录，期望 ID=%s，实际=%s", first.ID, again.ID)
	}
	if len(mocks.assignments.assignments) != 1 {
		t.Errorf("期望 1 条分配记录，实际=%d", len(mocks.assignments.assignments))
	}
}

func TestAssignmentService_Assign_IdempotentRoleChange(t *testing.T) {
	svc, mocks := setupTestAssignmentService()
	seedAssignmentFixtures(mocks)

	_, _ = svc.Assign(context.Background(), "user-001", "loc-001",
		&dto.AssignUserRequest{RoleID: "role-waiter"}, "admin-001")

	// 同一 (user, location) 换角色：原记录原地更新
	result, err := svc.Assign(context.Background(), "user-001", "loc-001",
		&dto.AssignUserRequest{RoleID: "role-manager"}, "admin-002")
	if err != nil {
		t.Fatalf("Assign 应成功: %v", err)
	}
	if result.RoleID != "role-manager" {
		t.Errorf("期望 RoleID=role-manager，实际=%s", result.RoleID)
	}

	stored, _ := mocks.assignments.GetByUserAndLocation(context.Background(), "user-001", "loc-001")
	if stored.RoleID != "role-manager" {
		t.Errorf("存储记录角色未更新，实际=%s", stored.RoleID)
	}
}

func TestAssignmentService_Assign_UserNotFound(t *testing.T) {
	svc, mocks := setupTestAssignmentService()
	seedAssignmentFixtures(mocks)

	_, err := svc.Assign(context.Background(), "user-missing", "loc-001",
		&dto.AssignUserRequest{RoleID: "role-waiter"}, "admin-001")
	if !errors.Is(err, ErrAssignUserNotFound) {
		t.Errorf("期望 ErrAssignUserNotFound，实际: %v", err)
	}
}

func TestAssignmentService_Assign_LocationNotFound(t *testing.T) {
	svc, mocks := setupTestAssignmentService()
	seedAssignmentFixtures(mocks)

	_, err := svc.Assign(context.Background(), "user-001", "loc-missing",
		&dto.AssignUserRequest{RoleID: "role-waiter"}, "admin-001")
	if !errors.Is(err, ErrLocationNotFound) {
		t.Errorf("期望 ErrLocationNotFound，实际: %v", err)
	}
}

func TestAssignmentService_Assign_RoleNotFound(t *testing.T) {
	svc, mocks := setupTestAssignmentService()
	seedAssignmentFixtures(mocks)

	_, err := svc.Assign(context.Background(), "user-001", "loc-001",
		&dto.AssignUserRequest{RoleID: "role-missing"}, "admin-001")
	if !errors.Is(err, ErrRoleNotFound) {
		t.Errorf("期望 ErrRoleNotFound，实际: %v", err)
	}
}

func TestAssignmentService_Assign_InactiveRoleRejected(t *testing.T) {
	svc, mocks := setupTestAssignmentService()
	seedAssignmentFixtures(mocks)

	_, err := svc.Assign(context.Background(), "user-001", "loc-001",
		&dto.AssignUserRequest{RoleID: "role-retired"}, "admin-001")
	if !errors.Is(err, ErrAssignRoleInactive) {
		t.Errorf("期望 ErrAssignRoleInactive，实际: %v", err)
	}
}

func TestAssignmentService_Assign_StationTags(t *testing.T) {
	svc, mocks := setupTestAssignmentService()
	seedAssignmentFixtures(mocks)

	result, err := svc.Assign(context.Background(), "user-001", "loc-001",
		&dto.AssignUserRequest{RoleID: "role-waiter", StationTags: []string{"grill", "fryer"}}, "admin-001")
	if err != nil {
		t.Fatalf("Assign 应成功: %v", err)
	}
	if len(result.StationTags) != 2 || result.StationTags[0] != "grill" {
		t.Errorf("StationTags 不符: %v", result.StationTags)
	}
}

// ── SetPrimaryLocation 测试 ──

func TestAssignmentService_SetPrimaryLocation_MovesExclusively(t *testing.T) {
	svc, mocks := setupTestAssignmentService()
	seedAssignmentFixtures(mocks)

	_, _ = svc.Assign(context.Background(), "user-001", "loc-001",
		&dto.AssignUserRequest{RoleID: "role-waiter"}, "admin-001")
	_, _ = svc.Assign(context.Background(), "user-001", "loc-002",
		&dto.AssignUserRequest{RoleID: "role-waiter"}, "admin-001")

	ok, err := svc.SetPrimaryLocation(context.Background(), "user-001", "loc-002")
	if err != nil {
		t.Fatalf("SetPrimaryLocation 应成功: %v", err)
	}
	if !ok {
		t.Fatal("期望 updated=true")
	}

	moved, _ := mocks.assignments.GetByUserAndLocation(context.Background(), "user-001", "loc-002")
	if !moved.IsPrimaryLocation {
		t.Error("目标分配应为主分配")
	}
	assertSinglePrimaryAssignment(t, mocks, "user-001")
}

func TestAssignmentService_SetPrimaryLocation_MissingPair(t *testing.T) {
	svc, mocks := setupTestAssignmentService()
	seedAssignmentFixtures(mocks)

	_, _ = svc.Assign(context.Background(), "user-001", "loc-001",
		&dto.AssignUserRequest{RoleID: "role-waiter"}, "admin-001")

	// (user, location) 对不存在：返回 false 且不报错，原主分配不受影响
	ok, err := svc.SetPrimaryLocation(context.Background(), "user-001", "loc-missing")
	if err != nil {
		t.Fatalf("不应报错: %v", err)
	}
	if ok {
		t.Error("期望 updated=false")
	}

	existing, _ := mocks.assignments.GetByUserAndLocation(context.Background(), "user-001", "loc-001")
	if !existing.IsPrimaryLocation {
		t.Error("失败的 SetPrimaryLocation 不应清除原主分配")
	}
}

// ── Remove 测试 ──

func TestAssignmentService_Remove(t *testing.T) {
	svc, mocks := setupTestAssignmentService()
	seedAssignmentFixtures(mocks)

	_, _ = svc.Assign(context.Background(), "user-001", "loc-001",
		&dto.AssignUserRequest{RoleID: "role-waiter"}, "admin-001")

	removed, err := svc.Remove(context.Background(), "user-001", "loc-001")
	if err != nil {
		t.Fatalf("Remove 应成功: %v", err)
	}
	if !removed {
		t.Error("期望 removed=true")
	}

	// 再次移除返回 false
	removed, err = svc.Remove(context.Background(), "user-001", "loc-001")
	if err != nil {
		t.Fatalf("重复 Remove 不应报错: %v", err)
	}
	if removed {
		t.Error("期望 removed=false")
	}
}

func TestAssignmentService_Remove_PrimaryNoAutoPromote(t *testing.T) {
	svc, mocks := setupTestAssignmentService()
	seedAssignmentFixtures(mocks)

	_, _ = svc.Assign(context.Background(), "user-001", "loc-001",
		&dto.AssignUserRequest{RoleID: "role-waiter"}, "admin-001")
	_, _ = svc.Assign(context.Background(), "user-001", "loc-002",
		&dto.AssignUserRequest{RoleID: "role-waiter"}, "admin-001")

	// 移除主分配后剩余分配不自动提升（与门店删除行为不同）
	removed, err := svc.Remove(context.Background(), "user-001", "loc-001")
	if err != nil || !removed {
		t.Fatalf("Remove 应成功: removed=%v err=%v", removed, err)
	}

	remaining, _ := mocks.assignments.GetByUserAndLocation(context.Background(), "user-001", "loc-002")
	if remaining.IsPrimaryLocation {
		t.Error("移除主分配后剩余分配不应被自动提升")
	}
}

// ── 查询测试 ──

func TestAssignmentService_HasLocationAccess(t *testing.T) {
	svc, mocks := setupTestAssignmentService()
	seedAssignmentFixtures(mocks)

	_, _ = svc.Assign(context.Background(), "user-001", "loc-001",
		&dto.AssignUserRequest{RoleID: "role-waiter"}, "admin-001")

	has, err := svc.HasLocationAccess(context.Background(), "user-001", "loc-001")
	if err != nil || !has {
		t.Errorf("期望有访问权限: has=%v err=%v", has, err)
	}

	has, err = svc.HasLocationAccess(context.Background(), "user-001", "loc-002")
	if err != nil || has {
		t.Errorf("期望无访问权限: has=%v err=%v", has, err)
	}
}

func TestAssignmentService_ListUserLocations_PrimaryFirst(t *testing.T) {
	svc, mocks := setupTestAssignmentService()
	seedAssignmentFixtures(mocks)

	_, _ = svc.Assign(context.Background(), "user-001", "loc-001",
		&dto.AssignUserRequest{RoleID: "role-waiter"}, "admin-001")
	_, _ = svc.Assign(context.Background(), "user-001", "loc-002",
		&dto.AssignUserRequest{RoleID: "role-waiter", IsPrimaryLocation: true}, "admin-001")

	list, err := svc.ListUserLocations(context.Background(), "user-001")
	if err != nil {
		t.Fatalf("ListUserLocations 应成功: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("期望 2 条记录，实际=%d", len(list))
	}
	if list[0].Assignment.LocationID != "loc-002" || !list[0].Assignment.IsPrimaryLocation {
		t.Error("主门店分配应排在首位")
	}
}

func TestAssignmentService_ListLocationStaff(t *testing.T) {
	svc, mocks := setupTestAssignmentService()
	seedAssignmentFixtures(mocks)
	mocks.users.users["user-002"] = &model.User{
		UserID: "user-002", Name: "李四", Email: "lisi@example.com", IsActive: true,
	}

	_, _ = svc.Assign(context.Background(), "user-001", "loc-001",
		&dto.AssignUserRequest{RoleID: "role-waiter"}, "admin-001")
	_, _ = svc.Assign(context.Background(), "user-002", "loc-001",
		&dto.AssignUserRequest{RoleID: "role-manager"}, "admin-001")

	staff, err := svc.ListLocationStaff(context.Background(), "loc-001")
	if err != nil {
		t.Fatalf("ListLocationStaff 应成功: %v", err)
	}
	if len(staff) != 2 {
		t.Errorf("期望 2 名员工，实际=%d", len(staff))
	}
}

// assertSinglePrimaryAssignment 校验用户恰好有一条主分配
func assertSinglePrimaryAssignment(t *testing.T, mocks *mockRepos, userID string) {
	t.Helper()
	count := 0
	for _, a := range mocks.assignments.assignments {
		if a.UserID == userID && a.IsPrimaryLocation {
			count++
		}
	}
	if count != 1 {
		t.Errorf("用户 %s 应恰好有一条主分配，实际=%d", userID, count)
	}
}
