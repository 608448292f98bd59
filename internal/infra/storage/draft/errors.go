package draft

import "errors"

var (
	// ErrDraftNotFound возвращается, когда черновик сессии не найден
	ErrDraftNotFound = errors.New("draft.repository: draft not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("draft.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("draft.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("draft.repository: failed to scan row")

	// ErrCorruptedDraft возвращается, когда сохраненный черновик нарушает инварианты сессии
	ErrCorruptedDraft = errors.New("draft.repository: corrupted draft payload")
)
