package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"funnelpay/internal/domain"
	"funnelpay/internal/metrics"
)

// RowStore is the interface for the external spreadsheet tab candidatures
// land in. One call appends one row; ordering is the store's problem.
type RowStore interface {
	AppendRow(ctx context.Context, values []string) error
}

// CandidatureService validates applicant submissions and appends them to
// the recruiting sheet.
type CandidatureService struct {
	store RowStore
	loc   *time.Location
	log   *zap.Logger
	now   func() time.Time
}

// NewCandidatureService creates a new CandidatureService. A nil store means
// the spreadsheet path is not configured; submissions then fail before any
// external call.
func NewCandidatureService(store RowStore, loc *time.Location, log *zap.Logger) *CandidatureService {
	if loc == nil {
		loc = time.UTC
	}
	return &CandidatureService{
		store: store,
		loc:   loc,
		log:   log,
		now:   time.Now,
	}
}

// Submit appends one candidature row. The data write is the only required
// side effect; everything cosmetic downstream (formatting) is best-effort
// inside the store.
func (s *CandidatureService) Submit(ctx context.Context, c domain.Candidature) error {
	if c.FullName == "" || c.Email == "" || c.Phone == "" {
		return ErrMissingCandidatureFields
	}
	if s.store == nil {
		return ErrSheetsNotConfigured
	}

	row := s.buildRow(c)
	if err := s.store.AppendRow(ctx, row); err != nil {
		metrics.SheetAppends.WithLabelValues("error").Inc()
		s.log.Error("candidature append failed",
			zap.String("email", c.Email),
			zap.Error(err))
		return fmt.Errorf("%w: %v", ErrSheetAppendFailed, err)
	}

	metrics.SheetAppends.WithLabelValues("ok").Inc()
	s.log.Info("candidature stored", zap.String("email", c.Email))
	return nil
}

// buildRow lays out columns A through L of the recruiting tab:
// name, email, raw phone, age, local timestamp, years of experience,
// software, portfolio, availability, start date, message, phone without
// international prefix.
func (s *CandidatureService) buildRow(c domain.Candidature) []string {
	submittedAt := s.now().In(s.loc).Format("02/01/2006, 15:04:05")
	return []string{
		c.FullName,
		c.Email,
		c.Phone,
		c.Age,
		submittedAt,
		forceText(c.YearsExperience),
		c.Software,
		c.Portfolio,
		c.Availability,
		forceText(c.StartDate),
		c.Message,
		StripPhonePrefix(c.Phone),
	}
}

// forceText prefixes a leading apostrophe so the spreadsheet keeps short
// numeric ranges like "1-3" as literal text instead of parsing them as dates.
func forceText(v string) string {
	if v == "" {
		return ""
	}
	return "'" + v
}
