// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// 原因カテゴリとクライアント向け対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, crm, system
	Action   string // クライアント向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeValidation            = "VALIDATION_ERROR"
	ErrCodeDuplicateAccount      = "DUPLICATE_ACCOUNT"
	ErrCodeAccountNotFound       = "ACCOUNT_NOT_FOUND"
	ErrCodeIncorrectPassword     = "INCORRECT_PASSWORD"
	ErrCodeTokenMissing          = "TOKEN_MISSING"
	ErrCodeTokenInvalid          = "TOKEN_INVALID"
	ErrCodeCustomerNotFound      = "CUSTOMER_NOT_FOUND"
	ErrCodeProjectNotFound       = "PROJECT_NOT_FOUND"
	ErrCodeDomainNotFound        = "DOMAIN_NOT_FOUND"
	ErrCodeSLANotFound           = "SLA_NOT_FOUND"
	ErrCodeCommunicationNotFound = "COMMUNICATION_NOT_FOUND"
	ErrCodeUserNotFound          = "USER_NOT_FOUND"
)

// NewValidationError は必須フィールド欠落などの入力エラーを生成する。
func NewValidationError(message string) *APIError {
	return &APIError{
		Code:     ErrCodeValidation,
		Message:  message,
		Category: "validation",
		Action:   "Check the request body and retry.",
	}
}

// NewDuplicateAccountError はusernameまたはemailの重複エラーを生成する。
func NewDuplicateAccountError() *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateAccount,
		Message:  "User with this email or username already exists!",
		Category: "auth",
		Action:   "Use a different username or email.",
	}
}

// NewAccountNotFoundError はログイン識別子に一致するアカウントがないエラーを生成する。
func NewAccountNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeAccountNotFound,
		Message:  "User with this username or email does not exist!",
		Category: "auth",
		Action:   "Check the username or email.",
	}
}

// NewIncorrectPasswordError はパスワード不一致エラーを生成する。
func NewIncorrectPasswordError() *APIError {
	return &APIError{
		Code:     ErrCodeIncorrectPassword,
		Message:  "Incorrect password!",
		Category: "auth",
		Action:   "Check the password and retry.",
	}
}

// NewTokenMissingError はトークン未提示エラーを生成する。
func NewTokenMissingError() *APIError {
	return &APIError{
		Code:     ErrCodeTokenMissing,
		Message:  "Access Denied!",
		Category: "auth",
		Action:   "Log in and retry with the issued token.",
	}
}

// NewTokenInvalidError は署名検証に失敗したトークンのエラーを生成する。
func NewTokenInvalidError() *APIError {
	return &APIError{
		Code:     ErrCodeTokenInvalid,
		Message:  "Invalid Token!",
		Category: "auth",
		Action:   "Log in again to obtain a fresh token.",
	}
}

// NewCustomerNotFoundError は顧客未検出エラーを生成する。
func NewCustomerNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeCustomerNotFound,
		Message:  "Customer not found",
		Category: "crm",
		Action:   "Check the customer ID.",
	}
}

// NewProjectNotFoundError はプロジェクト未検出エラーを生成する。
func NewProjectNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeProjectNotFound,
		Message:  "Project not found",
		Category: "crm",
		Action:   "Check the project ID.",
	}
}

// NewDomainNotFoundError はドメイン未検出エラーを生成する。
func NewDomainNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeDomainNotFound,
		Message:  "Domain not found",
		Category: "crm",
		Action:   "Check the domain ID.",
	}
}

// NewSLANotFoundError はSLA未検出エラーを生成する。
func NewSLANotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeSLANotFound,
		Message:  "SLA not found",
		Category: "crm",
		Action:   "Check the SLA ID.",
	}
}

// NewCommunicationNotFoundError はコミュニケーション未検出エラーを生成する。
func NewCommunicationNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeCommunicationNotFound,
		Message:  "Communication not found",
		Category: "crm",
		Action:   "Check the communication ID.",
	}
}

// NewUserNotFoundError はディレクトリユーザー未検出エラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "User not found",
		Category: "crm",
		Action:   "Check the user ID.",
	}
}
