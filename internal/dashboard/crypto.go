package dashboard

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/OER-Club/CS39AE-Fall25/internal/history"
	"github.com/OER-Club/CS39AE-Fall25/internal/market"
	"github.com/OER-Club/CS39AE-Fall25/internal/models"
)

// The live crypto page as an explicit state machine: instead of re-running
// a whole page script on every interaction, Step takes the current state
// and one event and returns the rendered view. A fetch failure leaves the
// state untouched and halts that render cycle.

type CryptoSettings struct {
	Instruments  []string      `json:"instruments"`
	VsCurrency   string        `json:"vsCurrency"`
	Window       time.Duration `json:"-"`
	PollInterval time.Duration `json:"-"`
	Live         bool          `json:"live"`
}

func (s CryptoSettings) validate() error {
	if len(s.Instruments) == 0 {
		return fmt.Errorf("at least one instrument is required")
	}
	if s.Window <= 0 {
		return fmt.Errorf("window must be positive")
	}
	if s.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive")
	}
	return nil
}

type CryptoState struct {
	Settings CryptoSettings
	History  *history.History
}

func NewCryptoState(s CryptoSettings) *CryptoState {
	return &CryptoState{
		Settings: s,
		History:  history.New(s.Window),
	}
}

// Event is one page interaction: a poll tick or a settings change.
type Event interface{ isEvent() }

type TickEvent struct{}

type SettingsEvent struct {
	Settings CryptoSettings
}

func (TickEvent) isEvent()     {}
func (SettingsEvent) isEvent() {}

type Quote struct {
	Instrument string  `json:"instrument"`
	Price      float64 `json:"price"`
}

type CryptoView struct {
	AsOf                time.Time                      `json:"asOf"`
	Live                bool                           `json:"live"`
	PollIntervalSeconds int                            `json:"pollIntervalSeconds"`
	WindowMinutes       int                            `json:"windowMinutes"`
	Snapshot            []Quote                        `json:"snapshot"`
	Series              map[string][]models.PricePoint `json:"series"`
}

// Recorder persists successful polls when a database is configured.
// Recording is supplementary: a recorder failure is logged and never
// fails the render cycle.
type Recorder interface {
	RecordPoints(ctx context.Context, points []models.PricePoint) error
}

type CryptoPage struct {
	source   market.PriceSource
	recorder Recorder
	log      *zap.Logger
	now      func() time.Time
}

func NewCryptoPage(source market.PriceSource, recorder Recorder, log *zap.Logger) *CryptoPage {
	if log == nil {
		log = zap.NewNop()
	}
	return &CryptoPage{
		source:   source,
		recorder: recorder,
		log:      log,
		now:      time.Now,
	}
}

// Step applies one event to the state and renders the resulting view.
// On error the state is unchanged and no view is produced.
func (p *CryptoPage) Step(ctx context.Context, st *CryptoState, ev Event) (*CryptoView, error) {
	switch e := ev.(type) {
	case TickEvent:
		return p.tick(ctx, st)
	case SettingsEvent:
		return p.applySettings(st, e.Settings)
	default:
		return nil, fmt.Errorf("unknown event %T", ev)
	}
}

func (p *CryptoPage) tick(ctx context.Context, st *CryptoState) (*CryptoView, error) {
	prices, err := p.source.SimplePrices(ctx, st.Settings.Instruments, st.Settings.VsCurrency)
	if err != nil {
		return nil, err
	}

	now := p.now()
	st.History.Append(now, prices)

	if p.recorder != nil {
		points := make([]models.PricePoint, 0, len(prices))
		for id, price := range prices {
			points = append(points, models.PricePoint{Timestamp: now, Instrument: id, Price: price})
		}
		if err := p.recorder.RecordPoints(ctx, points); err != nil {
			p.log.Warn("poll persistence failed", zap.Error(err))
		}
	}

	return p.render(st, now), nil
}

func (p *CryptoPage) applySettings(st *CryptoState, s CryptoSettings) (*CryptoView, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}

	now := p.now()
	if s.Window != st.Settings.Window {
		st.History.SetWindow(s.Window, now)
	}
	st.Settings = s

	return p.render(st, now), nil
}

// render builds the view from accumulated state without fetching.
func (p *CryptoPage) render(st *CryptoState, now time.Time) *CryptoView {
	series := st.History.Series()

	snapshot := make([]Quote, 0, len(st.Settings.Instruments))
	for _, id := range st.Settings.Instruments {
		pts := series[id]
		if len(pts) == 0 {
			continue
		}
		snapshot = append(snapshot, Quote{Instrument: id, Price: pts[len(pts)-1].Price})
	}

	return &CryptoView{
		AsOf:                now,
		Live:                st.Settings.Live,
		PollIntervalSeconds: int(st.Settings.PollInterval / time.Second),
		WindowMinutes:       int(st.Settings.Window / time.Minute),
		Snapshot:            snapshot,
		Series:              series,
	}
}
