package validate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/brunopultz/orderms/internal/domain"
	"github.com/brunopultz/orderms/internal/ports"
)

// EventFromJSON — строгий разбор и валидация события из JSON.
// Незадокументированные поля и данные после объекта считаются ошибкой.
func EventFromJSON(ctx context.Context, validator ports.EventValidator, raw []byte) (*domain.OrderCreatedEvent, error) {
	var event domain.OrderCreatedEvent
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&event); err != nil {
		return nil, fmt.Errorf("%w: invalid json: %v", domain.ErrValidation, err)
	}
	// гарантируем отсутствие данных после объекта
	if err := dec.Decode(new(struct{})); err != io.EOF {
		return nil, fmt.Errorf("%w: invalid json: trailing data", domain.ErrValidation)
	}
	if err := validator.Validate(ctx, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
