// Package tasks é o agendador fire-and-forget do pipeline: tudo que
// roda depois da resposta HTTP passa por aqui. O contrato é um só:
// erro ou panic dentro da tarefa morre logado, nunca volta para quem
// agendou e nunca derruba o processo.
package tasks

import (
	"context"
	"log"
	"time"
)

const defaultTimeout = 60 * time.Second

type GoRunner struct {
	timeout time.Duration
}

func NewGoRunner() *GoRunner {
	return &GoRunner{timeout: defaultTimeout}
}

func (r *GoRunner) Go(name string, fn func(ctx context.Context) error) {
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("❌ [TASK] panic em '%s': %v", name, rec)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			log.Printf("⚠️ [TASK] '%s' falhou: %v", name, err)
		}
	}()
}

// InlineRunner executa na hora, na mesma goroutine. Usado em teste para
// tirar o não-determinismo do fan-out.
type InlineRunner struct{}

func (InlineRunner) Go(name string, fn func(ctx context.Context) error) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("❌ [TASK] panic em '%s': %v", name, rec)
		}
	}()
	if err := fn(context.Background()); err != nil {
		log.Printf("⚠️ [TASK] '%s' falhou: %v", name, err)
	}
}
