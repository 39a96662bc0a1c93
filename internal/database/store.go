package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"civic-sense/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrDuplicateUser = errors.New("user id already exists")
)

// Store is the persistence accessor over the users and reports tables.
// Every call is bound to the caller's context.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// USERS

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateUser
		}
		return fmt.Errorf("database: create user: %w", err)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("database: get user: %w", err)
	}
	return &u, nil
}

// FindUserByEmail returns the first user with that email; emails are not unique.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).Order("id asc").First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("database: find user by email: %w", err)
	}
	return &u, nil
}

func (s *Store) UpdatePassword(ctx context.Context, id, hash string) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("password", hash)
	if res.Error != nil {
		return fmt.Errorf("database: update password: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ResetPassword records hash as the user's pending password and then calls
// deliver with no connection held. The current password keeps working until
// the pending one is redeemed; a failed delivery withdraws it.
func (s *Store) ResetPassword(ctx context.Context, id, hash string, deliver func() error) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("pending_password", hash)
	if res.Error != nil {
		return fmt.Errorf("database: reset password: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}

	if err := deliver(); err != nil {
		// only withdraw our own hash; a newer reset may have replaced it
		withdraw := s.db.WithContext(context.WithoutCancel(ctx)).Model(&models.User{}).
			Where("id = ? AND pending_password = ?", id, hash).
			Update("pending_password", nil)
		if withdraw.Error != nil {
			return errors.Join(err, fmt.Errorf("database: withdraw pending password: %w", withdraw.Error))
		}
		return err
	}
	return nil
}

// RedeemPendingPassword makes the pending hash the user's password. It is a
// no-op returning ErrUserNotFound when hash is no longer pending.
func (s *Store) RedeemPendingPassword(ctx context.Context, id, hash string) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND pending_password = ?", id, hash).
		Updates(map[string]any{"password": hash, "pending_password": nil})
	if res.Error != nil {
		return fmt.Errorf("database: redeem pending password: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *Store) ClearPendingPassword(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		Update("pending_password", nil).Error; err != nil {
		return fmt.Errorf("database: clear pending password: %w", err)
	}
	return nil
}

// REPORTS

func (s *Store) CreateReport(ctx context.Context, r *models.Report) error {
	if err := s.db.WithContext(ctx).Create(r).Error; err != nil {
		return fmt.Errorf("database: create report: %w", err)
	}
	return nil
}

// ListReports applies at most one filter: student id first, then the admin
// domain (category -> type, anything but "All Reports" -> location).
// Newest reports come first.
func (s *Store) ListReports(ctx context.Context, f models.ReportFilter) ([]models.Report, error) {
	q := s.db.WithContext(ctx).Model(&models.Report{})

	switch {
	case f.StudentID != "":
		q = q.Where("student_id = ?", f.StudentID)
	case f.Domain == models.DomainCleanliness, f.Domain == models.DomainMaintenance:
		q = q.Where("type = ?", f.Domain)
	case f.Domain != "" && f.Domain != models.DomainAllReports:
		q = q.Where("location = ?", f.Domain)
	}

	reports := make([]models.Report, 0)
	if err := q.Order("date desc").Order("id desc").Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("database: list reports: %w", err)
	}
	return reports, nil
}

// UpdateReportStatus sets the status, and resolved_date only when resolvedDate
// is non-nil. A missing report is not an error.
func (s *Store) UpdateReportStatus(ctx context.Context, id int64, status models.ReportStatus, resolvedDate *string) error {
	updates := map[string]any{"status": status}
	if resolvedDate != nil {
		updates["resolved_date"] = *resolvedDate
	}
	if err := s.db.WithContext(ctx).Model(&models.Report{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return fmt.Errorf("database: update report status: %w", err)
	}
	return nil
}

// DeleteReport is idempotent.
func (s *Store) DeleteReport(ctx context.Context, id int64) error {
	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Report{}).Error; err != nil {
		return fmt.Errorf("database: delete report: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint failed") || strings.Contains(msg, "duplicate key value")
}
