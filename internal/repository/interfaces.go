// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"errors"

	"github.com/vetalert/vetalert/internal/model"
)

// ErrDuplicateID はInsertでidが既存レコードと衝突した場合に返される。
// 同一ミリ秒の同時投稿でのみ起こり得る。サービス層でリトライする。
var ErrDuplicateID = errors.New("duplicate report id")

// ReportRepository は通報データの永続化インターフェース。
type ReportRepository interface {
	// Insert は新規通報を挿入する。idが重複する場合はErrDuplicateIDを返す。
	Insert(ctx context.Context, report *model.Report) error

	// ListAll は全通報をcreated_at降順（新しい順）で返す。
	// ページネーション・フィルタリングは行わない。
	ListAll(ctx context.Context) ([]*model.Report, error)

	// UpdatePartial はpatchのnilでないフィールドのみをidのレコードに適用する。
	// idに一致する行がない場合はエラーではなくno-opとなる。
	UpdatePartial(ctx context.Context, id string, patch model.ReportPatch) error
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れまたは未存在の場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。存在しないIDに対しても成功する（冪等）。
	DeleteByID(ctx context.Context, id string) error
}
