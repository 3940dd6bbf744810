package appointment

import (
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/slotbook/booking-saas/internal/domain/provider"
	"github.com/slotbook/booking-saas/internal/infra/repository"
	"github.com/slotbook/booking-saas/internal/models"
	"github.com/slotbook/booking-saas/internal/notification"
	"github.com/slotbook/booking-saas/internal/testutil"
	"github.com/slotbook/booking-saas/internal/timezone"
	provideruc "github.com/slotbook/booking-saas/internal/usecase/provider"
)

type sent struct {
	kind notification.Kind
	id   uint
	sms  bool
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sent
}

func (f *fakeNotifier) Enqueue(kind notification.Kind, appointmentID uint, sendSMS bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sent{kind, appointmentID, sendSMS})
}

func (f *fakeNotifier) last() sent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sent[len(f.sent)-1]
}

type harness struct {
	db       *gorm.DB
	repo     *repository.AppointmentGormRepository
	provRepo *repository.ProviderGormRepository
	clock    *timezone.FixedClock
	caps     *provider.Capabilities
	notifier *fakeNotifier

	slots     *GetAvailability
	validate  *ValidateCandidate
	book      *BookAppointment
	confirm   *ConfirmAppointment
	cancel    *CancelAppointment
	complete  *CompleteAppointment
	noShow    *MarkNoShow
	paid      *MarkPaid
	next      *NextAvailableDate
	listDay   *ListAppointmentsByDate
	listMonth *ListAppointmentsByMonth
	reset     *provideruc.ResetMonthlyCounters
}

// mondayNoon is 2025-01-06 12:00 IST, a Monday.
var mondayNoon = testutil.At(2025, time.January, 6, 12, 0)

func newHarness(t *testing.T, settings Settings) *harness {
	t.Helper()

	db := testutil.NewDB(t)
	repo := repository.NewAppointmentGormRepository(db)
	provRepo := repository.NewProviderGormRepository(db)
	clock := timezone.Fixed(mondayNoon)
	caps := provider.NewCapabilities(provider.DefaultLimits(), clock)
	notifier := &fakeNotifier{}

	hours := NewHoursResolver(repo)
	slots := NewGetAvailability(repo, caps, hours, clock, settings)
	validate := NewValidateCandidate(repo, caps, hours, clock, settings)
	plans := provideruc.NewDowngradeIfExpired(provRepo, caps, nil)

	return &harness{
		db:        db,
		repo:      repo,
		provRepo:  provRepo,
		clock:     clock,
		caps:      caps,
		notifier:  notifier,
		slots:     slots,
		validate:  validate,
		book:      NewBookAppointment(repo, validate, caps, plans, notifier, nil, settings, zap.NewNop()),
		confirm:   NewConfirmAppointment(repo, caps, notifier, nil),
		cancel:    NewCancelAppointment(repo, caps, clock, notifier, nil),
		complete:  NewCompleteAppointment(repo, clock, nil),
		noShow:    NewMarkNoShow(repo, clock, nil),
		paid:      NewMarkPaid(repo, nil),
		next:      NewNextAvailableDate(slots),
		listDay:   NewListAppointmentsByDate(repo),
		listMonth: NewListAppointmentsByMonth(repo),
		reset:     provideruc.NewResetMonthlyCounters(provRepo, clock),
	}
}

// shop creates a provider open Monday to Saturday 09:00-17:00 with one
// 60 minute service.
func (h *harness) shop(t *testing.T, slug, plan string) (*models.Provider, *models.Service) {
	t.Helper()

	p := testutil.CreateProvider(t, h.db, slug, plan)
	testutil.SetWeek(t, h.db, p.ID, "09:00", "17:00",
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday)
	svc := testutil.CreateService(t, h.db, p.ID, "Haircut", 60)
	return p, svc
}

func (h *harness) bookInput(p *models.Provider, svc *models.Service, date, hm string) BookInput {
	return BookInput{
		ProviderID:  p.ID,
		ServiceID:   svc.ID,
		ClientName:  "Asha",
		ClientPhone: "+919800000000",
		ClientEmail: "asha@example.com",
		Date:        date,
		Time:        hm,
	}
}
