package usecase

import (
	"context"
	"fmt"
	"log"
)

// Transaction é um saga simples: cada operação pode registrar a compensação
// que desfaz o seu efeito se um passo posterior falhar.
type Transaction struct {
	operations    []Operation
	compensations []Compensation
}

type Operation struct {
	Name string
	Fn   func(context.Context) error
}

type Compensation struct {
	Name string
	Fn   func(context.Context) error
}

func NewTransaction() *Transaction {
	return &Transaction{
		operations:    []Operation{},
		compensations: []Compensation{},
	}
}

// AddOperation registra um passo. comp pode ser nil quando não há o que desfazer.
func (t *Transaction) AddOperation(name string, fn func(context.Context) error, comp func(context.Context) error) {
	t.operations = append(t.operations, Operation{name, fn})
	t.compensations = append(t.compensations, Compensation{name, comp})
}

func (t *Transaction) Execute(ctx context.Context) error {
	for i, op := range t.operations {
		if err := op.Fn(ctx); err != nil {
			t.rollback(ctx, i)
			return fmt.Errorf("operation '%s' failed: %w (rolled back %d operations)", op.Name, err, i)
		}
	}
	return nil
}

func (t *Transaction) rollback(ctx context.Context, failedAtIndex int) {
	for i := failedAtIndex - 1; i >= 0; i-- {
		comp := t.compensations[i]
		if comp.Fn == nil {
			continue
		}
		if err := comp.Fn(ctx); err != nil {
			log.Printf("⚠️ [SAGA] compensação '%s' falhou: %v (risco de inconsistência!)", comp.Name, err)
		}
	}
}
