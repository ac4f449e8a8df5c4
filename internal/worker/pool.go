package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const QueueEmail = "jobs:email"

// Job types carried on QueueEmail.
const (
	JobConfirmacion     = "confirmacion"
	JobPedidoConfirmado = "pedido_confirmado"
	JobRecibo           = "recibo"
)

// MaxAttempts is how many times a job runs before it goes to the DLQ.
const MaxAttempts = 3

// Job is the generic envelope for all async tasks.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// Handler processes one job payload. A returned error schedules a retry.
type Handler func(ctx context.Context, payload json.RawMessage) error

type ConfirmacionPayload struct {
	Email  string `json:"email"`
	Nombre string `json:"nombre"`
	Enlace string `json:"enlace"`
}

type PedidoPayload struct {
	PedidoID int `json:"pedido_id"`
}

// Dispatcher enqueues jobs into Redis lists; the pool dequeues them via BRPOP.
// It satisfies identity.Notifier and service.Jobs.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

func (d *Dispatcher) EnqueueConfirmacion(ctx context.Context, email, nombre, enlace string) error {
	return d.enqueue(ctx, QueueEmail, JobConfirmacion, ConfirmacionPayload{Email: email, Nombre: nombre, Enlace: enlace})
}

func (d *Dispatcher) EnqueuePedidoConfirmado(ctx context.Context, pedidoID int) error {
	return d.enqueue(ctx, QueueEmail, JobPedidoConfirmado, PedidoPayload{PedidoID: pedidoID})
}

func (d *Dispatcher) EnqueueRecibo(ctx context.Context, pedidoID int) error {
	return d.enqueue(ctx, QueueEmail, JobRecibo, PedidoPayload{PedidoID: pedidoID})
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return push(ctx, d.rdb, queue, Job{Type: jobType, Payload: data})
}

func push(ctx context.Context, rdb *redis.Client, queue string, job Job) error {
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return rdb.LPush(ctx, queue, encoded).Err()
}

// Pool runs registered handlers for jobs popped from QueueEmail.
type Pool struct {
	rdb      *redis.Client
	handlers map[string]Handler
	wait     time.Duration
	wg       sync.WaitGroup
}

func NewPool(rdb *redis.Client) *Pool {
	return &Pool{rdb: rdb, handlers: make(map[string]Handler), wait: 5 * time.Second}
}

func (p *Pool) Register(jobType string, h Handler) {
	p.handlers[jobType] = h
}

// Start launches numWorkers goroutines. Each blocks on BRPOP, so idle
// workers cost nothing. Wait returns once ctx is done and all have exited.
func (p *Pool) Start(ctx context.Context, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			p.run(ctx, id)
		}(i)
	}
	log.Info().Int("workers", numWorkers).Msg("worker pool started")
}

func (p *Pool) Wait() { p.wg.Wait() }

func (p *Pool) run(ctx context.Context, id int) {
	for {
		if ctx.Err() != nil {
			log.Info().Int("worker", id).Msg("worker shutting down")
			return
		}
		result, err := p.rdb.BRPop(ctx, p.wait, QueueEmail).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
				log.Error().Err(err).Int("worker", id).Msg("worker: brpop failed")
				time.Sleep(time.Second)
			}
			continue
		}
		if len(result) < 2 {
			continue
		}
		p.process(ctx, result[0], result[1])
	}
}

// process runs one raw job. Failures are re-queued with Attempts+1 until
// MaxAttempts, then moved to the DLQ. Unknown types go to the DLQ directly.
func (p *Pool) process(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("worker: invalid job envelope")
		payload, _ := json.Marshal(raw)
		SendToDLQ(ctx, p.rdb, queue, "", payload, "invalid envelope: "+err.Error(), 0)
		return
	}

	h, ok := p.handlers[job.Type]
	if !ok {
		SendToDLQ(ctx, p.rdb, queue, job.Type, job.Payload, "no handler registered", job.Attempts)
		return
	}

	job.Attempts++
	err := h(ctx, job.Payload)
	if err == nil {
		log.Info().Str("type", job.Type).Int("attempt", job.Attempts).Msg("worker: job done")
		return
	}

	log.Warn().Err(err).Str("type", job.Type).Int("attempt", job.Attempts).Msg("worker: job failed")
	if job.Attempts >= MaxAttempts {
		SendToDLQ(ctx, p.rdb, queue, job.Type, job.Payload, err.Error(), job.Attempts)
		return
	}
	if err := push(ctx, p.rdb, queue, job); err != nil {
		log.Error().Err(err).Str("type", job.Type).Msg("worker: re-queue failed")
	}
}
