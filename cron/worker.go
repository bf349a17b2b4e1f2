package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"

	"agendai/config"
	"agendai/services/messaging"
)

const TypeReminderSend = "reminder:send"

// ReminderPayload carries one scheduled appointment reminder.
type ReminderPayload struct {
	To   string `json:"to"`
	Name string `json:"name"`
	Slot string `json:"slot"`
}

// Scheduler enqueues appointment reminders for later delivery.
type Scheduler struct {
	client *asynq.Client
}

// NewScheduler builds a reminder scheduler on the configured Redis.
func NewScheduler() *Scheduler {
	return &Scheduler{
		client: asynq.NewClient(redisOpts()),
	}
}

// Schedule enqueues one reminder to fire at the given time.
func (s *Scheduler) Schedule(to, name, slot string, at time.Time) error {
	payload, err := json.Marshal(ReminderPayload{To: to, Name: name, Slot: slot})
	if err != nil {
		return fmt.Errorf("schedule reminder: marshal payload: %w", err)
	}
	task := asynq.NewTask(TypeReminderSend, payload)
	if _, err := s.client.Enqueue(task, asynq.ProcessAt(at)); err != nil {
		return fmt.Errorf("schedule reminder: enqueue: %w", err)
	}
	return nil
}

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	}
}

// InitReminderWorker runs the async worker in background.
func InitReminderWorker(messenger messaging.Messenger) {
	srv := asynq.NewServer(
		redisOpts(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeReminderSend, handleReminderTask(messenger))

	// Start Redis health monitor
	go monitorRedisConnection()

	// Start async worker with retry logic
	go func() {
		log.Println("[ReminderWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ReminderWorker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ReminderWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleReminderTask(messenger messaging.Messenger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ReminderHandler] Invalid payload: %v", err)
			return err
		}

		text := fmt.Sprintf("Olá, %s! Lembrete: sua consulta é %s. Se precisar remarcar, envie *cancelar* e depois *agendar*.",
			p.Name, p.Slot)
		if err := messenger.Send(ctx, p.To, text); err != nil {
			log.Printf("[ReminderHandler] Failed to send reminder to %s: %v", p.To, err)
			return err
		}
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[ReminderWorker] Redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
