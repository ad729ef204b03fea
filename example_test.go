package aura_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/aura"
	"github.com/aretw0/aura/pkg/domain"
)

// ExampleEngine_Process shows the first turn of a conversation.
func ExampleEngine_Process() {
	eng, err := aura.New()
	if err != nil {
		log.Fatal(err)
	}

	resp, err := eng.Process(context.Background(), &domain.Request{
		Version: "1.0",
		Session: &domain.RequestSession{New: true, UserID: "example-user"},
		Request: &domain.Utterance{},
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(resp.Response.Text)
	for _, b := range resp.Response.Buttons {
		fmt.Println("-", b.Title)
	}
	// Output:
	// Я подберу для вас идеальную модель матраса. Для этого мне необходимо задать вам несколько вопросов. Скажите, вам нужен матрас для двоих?
	// - да
	// - нет
}
