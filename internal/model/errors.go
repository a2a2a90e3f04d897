// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// Messageはレスポンスのerrorフィールドとしてそのままユーザーに表示される。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ（ユーザー向け）
	Category string // カテゴリ: auth, validation, system
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeMissingRequiredFields = "MISSING_REQUIRED_FIELDS"
	ErrCodeInvalidStatus         = "INVALID_STATUS"
	ErrCodeInvalidDecision       = "INVALID_DECISION"
	ErrCodeNothingToUpdate       = "NOTHING_TO_UPDATE"
	ErrCodeUnauthorized          = "UNAUTHORIZED"
	ErrCodeInvalidAccessCode     = "INVALID_ACCESS_CODE"
)

// NewMissingRequiredFieldsError は必須フィールド未入力エラーを生成する。
// animalType, urgency, locationText, descriptionのいずれかがトリム後に空の場合。
func NewMissingRequiredFieldsError() *APIError {
	return &APIError{
		Code:     ErrCodeMissingRequiredFields,
		Message:  "Missing required fields",
		Category: "validation",
	}
}

// NewInvalidStatusError は列挙外のstatus値エラーを生成する。
func NewInvalidStatusError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidStatus,
		Message:  "Invalid status",
		Category: "validation",
	}
}

// NewInvalidDecisionError は列挙外のdecision値エラーを生成する。
func NewInvalidDecisionError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidDecision,
		Message:  "Invalid decision",
		Category: "validation",
	}
}

// NewNothingToUpdateError は空パッチエラーを生成する。
// 適用フィールドのない更新呼び出しはユーザーエラーであり、no-op成功ではない。
func NewNothingToUpdateError() *APIError {
	return &APIError{
		Code:     ErrCodeNothingToUpdate,
		Message:  "Nothing to update",
		Category: "validation",
	}
}

// NewUnauthorizedError は認可エラーを生成する。
// "Unauthorized"以外の詳細は漏らさない。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "Unauthorized",
		Category: "auth",
	}
}

// NewInvalidAccessCodeError はNGOアクセスコード不一致エラーを生成する。
func NewInvalidAccessCodeError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidAccessCode,
		Message:  "Invalid NGO access code",
		Category: "auth",
	}
}
