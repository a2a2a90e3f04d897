// Package security はアプリケーションのセキュリティ機能を提供する。
//
// InputSanitizerService は市民が投稿する自由テキストをサニタイズし、
// レスキューダッシュボードで表示される際のXSSリスクからユーザーを保護する。
// bluemondayの厳格ポリシーで全HTMLタグを除去する。
package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// InputSanitizerService はテキスト入力のサニタイズ機能のインターフェースを定義する。
// 通報の保存前に使用される。
type InputSanitizerService interface {
	// Sanitize は入力テキストから全HTMLタグを除去して返す。
	// 通報フィールドはプレーンテキストのみを想定するため、許可タグはない。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// inputSanitizer はInputSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type inputSanitizer struct {
	policy *bluemonday.Policy
}

// NewInputSanitizer はInputSanitizerServiceの新しいインスタンスを生成する。
// StrictPolicyは全タグ・全属性を除去し、テキストのみを残す。
func NewInputSanitizer() *inputSanitizer {
	return &inputSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize は入力テキストから全HTMLタグを除去して返す。
func (s *inputSanitizer) Sanitize(raw string) string {
	if raw == "" {
		return ""
	}
	return strings.TrimSpace(s.policy.Sanitize(raw))
}

// compile-time interface check
var _ InputSanitizerService = (*inputSanitizer)(nil)
