package domain

import "errors"

// Два вида ошибок ядра. Транспортные слои мапят их сами:
// консьюмер коммитит и пропускает ErrValidation, но не коммитит ErrStorage;
// HTTP отдаёт 400 на ErrValidation и 503 на ErrStorage.
var (
	// ErrValidation — некорректное событие или параметры запроса.
	// Такие данные не сохраняются и не ретраятся ядром.
	ErrValidation = errors.New("validation failed")

	// ErrStorage — хранилище недоступно или запрос/запись не удались.
	// Ядро не ретраит само: политика повторов у внешнего слоя.
	ErrStorage = errors.New("order storage unavailable")
)
