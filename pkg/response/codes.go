package response

// 业务错误码，前三位与 HTTP 状态码一致
const (
	CodeInvalidRequest  = 40001
	CodeValidation      = 40002
	CodeUnauthorized    = 40101
	CodeOutOfRange      = 40301
	CodeForbidden       = 40302
	CodeNotFound        = 40401
	CodeDuplicateEvent  = 40901
	CodeStorageConflict = 40902
	CodeBodyTooLarge    = 41301
	CodeSequence        = 42201
	CodeTooManyRequests = 42901
)
