package dto

// ── 打卡凭证 DTO ──

// ReceiptResponse 打卡凭证
type ReceiptResponse struct {
	Code                  string  `json:"code"`
	CompanyName           string  `json:"company_name"`
	CNPJ                  string  `json:"cnpj"`
	EstablishmentName     string  `json:"establishment_name"`
	WorkerName            string  `json:"worker_name"`
	CPF                   string  `json:"cpf"`
	Date                  string  `json:"date"` // dd/mm/yyyy
	Time                  string  `json:"time"`
	Type                  string  `json:"type"`
	TypeLabel             string  `json:"type_label"`
	Latitude              float64 `json:"latitude"`
	Longitude             float64 `json:"longitude"`
	AllowedRadius         int     `json:"allowed_radius"`
	WithinTolerance       bool    `json:"within_tolerance"`
	LateMinutes           int     `json:"late_minutes"`
	EarlyDepartureMinutes int     `json:"early_departure_minutes"`
	ManualAdjustment      bool    `json:"manual_adjustment"`
	ServerTimestamp       string  `json:"server_timestamp"`
	ValidationURL         string  `json:"validation_url"`
	QRCodePNG             string  `json:"qr_code_png,omitempty"` // base64
}

// ReceiptValidationResponse 凭证扫码校验结果
type ReceiptValidationResponse struct {
	Valid             bool   `json:"valid"`
	Code              string `json:"code"`
	WorkerName        string `json:"worker_name"`
	EstablishmentName string `json:"establishment_name"`
	Date              string `json:"date"`
	Time              string `json:"time"`
	Type              string `json:"type"`
}
