package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// DeletedResponse resultado de un borrado masivo.
type DeletedResponse struct {
	Deleted int64 `json:"deleted"`
}

// MessageResponse respuesta simple con mensaje.
type MessageResponse struct {
	Message string `json:"message"`
}

// DuplicateScanResponse error 409 de un conteo duplicado con el registro a editar.
type DuplicateScanResponse struct {
	Code     string        `json:"code"`
	Message  string        `json:"message"`
	Existing *ScanResponse `json:"existing,omitempty"`
}
