package worker

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// DueDispatcher é satisfeito por usecase.DispatchDueFollowUpsUseCase.
type DueDispatcher interface {
	Execute(ctx context.Context, from, to time.Time) (int, error)
}

// FollowUpReminderWorker avisa os donos dos leads sobre follow-ups que vencem
// dentro do lookahead. Cada execução cobre só a janela nova desde a anterior,
// então nenhum follow-up é lembrado duas vezes.
type FollowUpReminderWorker struct {
	dispatcher DueDispatcher
	schedule   string
	lookahead  time.Duration

	OnDispatched func(n int)

	mu      sync.Mutex
	lastRun time.Time
	now     func() time.Time
}

func NewFollowUpReminderWorker(dispatcher DueDispatcher, schedule string, lookahead time.Duration) *FollowUpReminderWorker {
	if schedule == "" {
		schedule = "@every 5m"
	}
	if lookahead <= 0 {
		lookahead = time.Hour
	}
	return &FollowUpReminderWorker{
		dispatcher: dispatcher,
		schedule:   schedule,
		lookahead:  lookahead,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Start agenda o job e bloqueia até o ctx ser cancelado.
func (w *FollowUpReminderWorker) Start(ctx context.Context) error {
	c := cron.New(cron.WithChain(
		cron.Recover(cron.DefaultLogger),
		cron.SkipIfStillRunning(cron.DefaultLogger),
	))

	if _, err := c.AddFunc(w.schedule, func() { w.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("agenda de lembretes inválida %q: %w", w.schedule, err)
	}

	log.Printf("🕒 [REMINDER] worker iniciado (agenda %q, janela %s)", w.schedule, w.lookahead)
	w.RunOnce(ctx)
	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()
	log.Println("⚠️ [REMINDER] worker encerrado")
	return nil
}

// RunOnce processa a janela (última execução + lookahead, agora + lookahead].
// Na primeira execução a janela é (agora, agora + lookahead].
func (w *FollowUpReminderWorker) RunOnce(ctx context.Context) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	current := w.now()
	from := current
	if !w.lastRun.IsZero() {
		from = w.lastRun.Add(w.lookahead)
	}
	to := current.Add(w.lookahead)
	if !to.After(from) {
		return 0
	}

	n, err := w.dispatcher.Execute(ctx, from, to)
	if err != nil {
		// janela não avança: a próxima execução tenta de novo
		log.Printf("❌ [REMINDER] erro ao despachar lembretes: %v", err)
		return n
	}

	w.lastRun = current
	if n > 0 && w.OnDispatched != nil {
		w.OnDispatched(n)
	}
	return n
}
