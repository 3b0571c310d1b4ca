// Package store holds typed accessors over the five collections: apps, users,
// reviews, reports and coupons. Every mutation whose correctness depends on a
// precondition is a single conditional statement; callers never read then
// write.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/models"
	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type AppSort string

const (
	// SortModeration lists pending first, then approved, then rejected.
	SortModeration AppSort = ""
	SortTrending   AppSort = "trending"
	SortRecent     AppSort = "recent"
)

// AppFilter selects applications. A zero Limit disables pagination.
type AppFilter struct {
	Status     models.AppStatus
	Featured   *bool
	OwnerEmail string
	Tag        string
	Sort       AppSort
	Page       int
	Limit      int
}

func (f AppFilter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

// AppFields are the owner-editable fields of an application.
type AppFields struct {
	Name        string
	Title       string
	Website     string
	Description string
	Tags        []string
	Image       string
}

type UserFilter struct {
	Search string
	Page   int
	Limit  int
}

func (f UserFilter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

// ReportRow is the latest report of one application joined with the
// application. App is nil when the application no longer exists.
type ReportRow struct {
	Report models.Report
	App    *models.Application
}

// CouponPatch carries the fields to change; nil means unchanged.
type CouponPatch struct {
	Code          *string
	Description   *string
	DiscountType  *string
	DiscountValue *float64
	IsActive      *bool
	ExpiryDate    *time.Time
}

type AppStore interface {
	CreateApp(ctx context.Context, app *models.Application) error
	GetApp(ctx context.Context, id uuid.UUID) (*models.Application, error)
	ListApps(ctx context.Context, f AppFilter) ([]models.Application, int64, error)
	// UpdateAppFields applies fields when ownerEmail owns the application.
	UpdateAppFields(ctx context.Context, id uuid.UUID, ownerEmail string, fields AppFields) (bool, error)
	SetFeatured(ctx context.Context, id uuid.UUID, featured bool) error
	SetStatus(ctx context.Context, id uuid.UUID, status models.AppStatus) error
	DeleteApp(ctx context.Context, id uuid.UUID) error
	// AddVoter increments upvotes and appends email in one statement, only when
	// email is neither the owner nor already a voter.
	AddVoter(ctx context.Context, id uuid.UUID, email string) (bool, error)
	// RemoveVoter decrements upvotes and removes email in one statement, only
	// when email is a voter.
	RemoveVoter(ctx context.Context, id uuid.UUID, email string) (bool, error)
}

type UserStore interface {
	// UpsertUser inserts u or refreshes last_loggedIn of the existing row with
	// the same email. It returns the stored row and whether it was inserted.
	UpsertUser(ctx context.Context, u *models.User) (*models.User, bool, error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// ListUsers never returns admin rows.
	ListUsers(ctx context.Context, f UserFilter) ([]models.User, int64, error)
	UpdateProfile(ctx context.Context, email, name, photo string) (*models.User, error)
	// SetRoleUnlessAdmin changes the role when the current role is not admin.
	SetRoleUnlessAdmin(ctx context.Context, id uuid.UUID, role models.Role) (bool, error)
}

type ReviewStore interface {
	CreateReview(ctx context.Context, r *models.Review) error
	ListReviews(ctx context.Context, productID uuid.UUID) ([]models.Review, error)
}

type ReportStore interface {
	// InsertReportIfAbsent returns false when (AppID, UserEmail) already exists.
	InsertReportIfAbsent(ctx context.Context, r *models.Report) (bool, error)
	LatestReportPerApp(ctx context.Context, offset, limit int) ([]ReportRow, error)
	CountReportedApps(ctx context.Context) (int64, error)
	ListReportsForApp(ctx context.Context, appID uuid.UUID) ([]models.Report, error)
	DeleteReport(ctx context.Context, id uuid.UUID) error
}

type CouponStore interface {
	CreateCoupon(ctx context.Context, c *models.Coupon) error
	GetCoupon(ctx context.Context, id uuid.UUID) (*models.Coupon, error)
	GetCouponByCode(ctx context.Context, code string) (*models.Coupon, error)
	ListCoupons(ctx context.Context, page, limit int) ([]models.Coupon, int64, error)
	ListValidCoupons(ctx context.Context, now time.Time) ([]models.Coupon, error)
	UpdateCoupon(ctx context.Context, id uuid.UUID, patch CouponPatch) (*models.Coupon, error)
	DeleteCoupon(ctx context.Context, id uuid.UUID) error
}

// Store is the full document store.
type Store interface {
	AppStore
	UserStore
	ReviewStore
	ReportStore
	CouponStore
	Ping(ctx context.Context) error
	Close() error
}
