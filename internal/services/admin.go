package services

import (
	"context"

	"kharcha/internal/api"
	"kharcha/internal/core"
)

// AdminService backs the admin reporting view. The server enforces the
// role; these calls simply fail with a 403 for non-admin sessions.
type AdminService struct {
	client *api.Client
}

func NewAdminService(client *api.Client) *AdminService {
	return &AdminService{client: client}
}

func (s *AdminService) Users(ctx context.Context) ([]api.UserRecord, error) {
	return s.client.ListUsers(ctx)
}

func (s *AdminService) ToggleActive(ctx context.Context, userID int64) error {
	return s.client.ToggleUserActive(ctx, userID)
}

func (s *AdminService) DeleteUser(ctx context.Context, userID int64) error {
	return s.client.DeleteUser(ctx, userID)
}

func (s *AdminService) Stats(ctx context.Context) (core.AdminStats, error) {
	return s.client.AdminStats(ctx)
}

// AllExpenses lists every user's expenses, optionally narrowed by user id
// or date. For admins the backend returns the full set.
func (s *AdminService) AllExpenses(ctx context.Context, filter api.ExpenseFilter) ([]api.ExpenseRecord, error) {
	return s.client.ListExpenses(ctx, filter)
}
