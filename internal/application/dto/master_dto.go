package dto

// Estados de una carga masiva.
const (
	IngestSuccess = "success"
	IngestPartial = "partial"
	IngestFailed  = "failed"
)

// IngestSummary resumen de una carga de maestro.
type IngestSummary struct {
	Kind       string `json:"kind"` // base | daily | average
	Rows       int    `json:"rows"` // filas de datos leídas (sin encabezado)
	Inserted   int    `json:"inserted"`
	Skipped    int    `json:"skipped"`    // filas sin número de parte
	Duplicates int    `json:"duplicates"` // números de parte repetidos dentro del archivo
	Batches    int    `json:"batches,omitempty"`
	Succeeded  int    `json:"succeeded_batches,omitempty"`
	Failed     int    `json:"failed_batches,omitempty"`
	Status     string `json:"status"`
}

// BaseStatusResponse estado de bloqueo del maestro base.
type BaseStatusResponse struct {
	Locked bool `json:"locked"`
	Count  int  `json:"count"`
}
