package service

import (
	"context"
	"errors"
	"testing"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Ismaelg12/timeflow/internal/dto"
	"github.com/Ismaelg12/timeflow/internal/model"
)

func setupTestUserService() (UserService, *mockStore) {
	store := newMockStore()
	return NewUserService(store.repo(), zap.NewNop()), store
}

// ── CreateUser 测试 ──

func TestCreateUser_Success(t *testing.T) {
	svc, store := setupTestUserService()

	resp, err := svc.CreateUser(context.Background(), &dto.CreateUserRequest{
		Username: "rh.maria",
		Name:     "Maria Lima",
		Email:    "maria@prefeitura.gov.br",
		Password: "senha-forte-123",
		Role:     model.RoleStaff,
	}, "admin-1")
	if err != nil {
		t.Fatalf("创建用户应成功: %v", err)
	}
	if resp.Username != "rh.maria" || resp.Role != model.RoleStaff || !resp.IsActive {
		t.Errorf("返回信息错误: %+v", resp)
	}

	stored := store.users.users[resp.ID]
	if stored == nil {
		t.Fatal("用户应已写入")
	}
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("senha-forte-123")) != nil {
		t.Error("密码应以 bcrypt 哈希保存")
	}
	if stored.CreatedBy == nil || *stored.CreatedBy != "admin-1" {
		t.Error("应记录创建人")
	}
}

func TestCreateUser_UsernameTaken(t *testing.T) {
	svc, store := setupTestUserService()
	seedUser(store, "rh.maria", model.RoleStaff, true)

	_, err := svc.CreateUser(context.Background(), &dto.CreateUserRequest{
		Username: "rh.maria",
		Name:     "Outra Maria",
		Password: "senha-forte-123",
		Role:     model.RoleStaff,
	}, "admin-1")
	if !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("期望 ErrUsernameTaken，实际: %v", err)
	}
}

// ── GetByID / List 测试 ──

func TestUserGetByID(t *testing.T) {
	svc, store := setupTestUserService()
	u := seedUser(store, "ana", model.RoleWorker, true)
	w := seedWorker(store, testCPF, true)
	w.UserID = &u.UserID

	resp, err := svc.GetByID(context.Background(), u.UserID)
	if err != nil {
		t.Fatalf("查询应成功: %v", err)
	}
	if resp.WorkerID != w.WorkerID {
		t.Errorf("应带出绑定员工，实际 %q", resp.WorkerID)
	}

	if _, err := svc.GetByID(context.Background(), "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际: %v", err)
	}
}

func TestUserList_Paginated(t *testing.T) {
	svc, store := setupTestUserService()
	seedUser(store, "carla", model.RoleStaff, true)
	seedUser(store, "ana", model.RoleStaff, true)
	seedUser(store, "bruno", model.RoleAdmin, true)

	list, total, err := svc.List(context.Background(), &dto.UserListRequest{
		PaginationRequest: dto.PaginationRequest{Page: 1, PageSize: 2},
	})
	if err != nil {
		t.Fatalf("列表应成功: %v", err)
	}
	if total != 3 || len(list) != 2 {
		t.Fatalf("期望共 3 条、本页 2 条，实际 %d / %d", total, len(list))
	}
	if list[0].Username != "ana" || list[1].Username != "bruno" {
		t.Errorf("应按用户名排序，实际 %s, %s", list[0].Username, list[1].Username)
	}
}

// ── SetActive 测试 ──

func TestUserSetActive(t *testing.T) {
	svc, store := setupTestUserService()
	u := seedUser(store, "rh.maria", model.RoleStaff, true)

	resp, err := svc.SetActive(context.Background(), u.UserID, false, "admin-1")
	if err != nil {
		t.Fatalf("停用应成功: %v", err)
	}
	if resp.IsActive || store.users.users[u.UserID].IsActive {
		t.Error("用户应已停用")
	}
}

func TestUserSetActive_CannotDeactivateSelf(t *testing.T) {
	svc, store := setupTestUserService()
	u := seedUser(store, "admin", model.RoleAdmin, true)

	_, err := svc.SetActive(context.Background(), u.UserID, false, u.UserID)
	if !errors.Is(err, ErrUserSelfChange) {
		t.Errorf("期望 ErrUserSelfChange，实际: %v", err)
	}
}

// ── ResetPassword 测试 ──

func TestResetPassword(t *testing.T) {
	svc, store := setupTestUserService()
	u := seedUser(store, "rh.maria", model.RoleStaff, true)

	resp, err := svc.ResetPassword(context.Background(), u.UserID, "admin-1")
	if err != nil {
		t.Fatalf("重置密码应成功: %v", err)
	}
	if len(resp.TempPassword) != 10 {
		t.Errorf("临时密码应为 10 位，实际 %d", len(resp.TempPassword))
	}
	stored := store.users.users[u.UserID]
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(resp.TempPassword)) != nil {
		t.Error("新密码哈希应已保存")
	}
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(testPassword)) == nil {
		t.Error("旧密码应失效")
	}
}

func TestGenerateTempPassword(t *testing.T) {
	for i := 0; i < 20; i++ {
		pw, err := generateTempPassword(4)
		if err != nil {
			t.Fatalf("生成失败: %v", err)
		}
		if len(pw) != 8 {
			t.Fatalf("最短 8 位，实际 %d", len(pw))
		}
		var letter, digit bool
		for _, r := range pw {
			if unicode.IsLetter(r) {
				letter = true
			}
			if unicode.IsDigit(r) {
				digit = true
			}
		}
		if !letter || !digit {
			t.Errorf("应同时包含字母和数字: %s", pw)
		}
	}
}
