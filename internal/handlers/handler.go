package handlers

import (
	"context"
	"time"

	"civic-sense/internal/logger"
	"civic-sense/internal/mail"
	"civic-sense/internal/metrics"
	"civic-sense/internal/models"

	"golang.org/x/crypto/bcrypt"
)

// Store is the persistence the handlers need; *database.Store implements it.
type Store interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePassword(ctx context.Context, id, hash string) error
	ResetPassword(ctx context.Context, id, hash string, deliver func() error) error
	RedeemPendingPassword(ctx context.Context, id, hash string) error
	ClearPendingPassword(ctx context.Context, id string) error

	CreateReport(ctx context.Context, r *models.Report) error
	ListReports(ctx context.Context, f models.ReportFilter) ([]models.Report, error)
	UpdateReportStatus(ctx context.Context, id int64, status models.ReportStatus, resolvedDate *string) error
	DeleteReport(ctx context.Context, id int64) error
}

type Options struct {
	Store     Store
	Mailer    mail.Mailer
	Logger    logger.Logger
	Metrics   *metrics.Metrics
	StaticDir string

	// Now defaults to time.Now; report dates use its location.
	Now func() time.Time
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
}

type Handlers struct {
	store      Store
	mailer     mail.Mailer
	log        logger.Logger
	metrics    *metrics.Metrics
	staticDir  string
	now        func() time.Time
	bcryptCost int
}

func New(opts Options) *Handlers {
	h := &Handlers{
		store:      opts.Store,
		mailer:     opts.Mailer,
		log:        opts.Logger,
		metrics:    opts.Metrics,
		staticDir:  opts.StaticDir,
		now:        opts.Now,
		bcryptCost: opts.BcryptCost,
	}
	if h.log == nil {
		h.log = logger.New(nil)
	}
	if h.mailer == nil {
		h.mailer = mail.NewLogMailer(h.log)
	}
	if h.metrics == nil {
		h.metrics = metrics.New()
	}
	if h.staticDir == "" {
		h.staticDir = "web"
	}
	if h.now == nil {
		h.now = time.Now
	}
	if h.bcryptCost == 0 {
		h.bcryptCost = bcrypt.DefaultCost
	}
	return h
}
