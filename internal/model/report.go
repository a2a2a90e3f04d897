// Package model はドメインモデルを定義する。
package model

import "time"

// Report は市民から投稿された動物インシデント通報を表す。
// id・createdAtはサーバー側で生成され、作成後は不変。
// 作成後に変更できるのはStatus、Decision、AssignedToのみ。
type Report struct {
	ID            string
	AnimalType    string
	Urgency       string
	LocationText  string
	Description   string
	Geo           string
	ReporterName  string
	ReporterPhone string
	Status        Status
	Decision      Decision
	AssignedTo    string
	CreatedAt     time.Time
}

// Status は通報の対応状況を表す。
// 値間の遷移順序は制約しない（任意の値から任意の値へ変更可能）。
type Status string

const (
	// StatusReported は通報直後の初期状態。
	StatusReported Status = "Reported"
	// StatusAccepted はレスキュアーが対応を受け付けた状態。
	StatusAccepted Status = "Accepted"
	// StatusInProgress は対応中の状態。
	StatusInProgress Status = "In Progress"
	// StatusCompleted は対応完了の状態。
	StatusCompleted Status = "Completed"
)

// IsValid はStatusが列挙値のいずれかであるかを返す。
func (s Status) IsValid() bool {
	switch s {
	case StatusReported, StatusAccepted, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Decision はレスキュアーによる受理判定を表す。
// Statusとは独立した軸で、こちらも遷移順序は制約しない。
type Decision string

const (
	// DecisionPending は判定前の初期状態。
	DecisionPending Decision = "Pending"
	// DecisionAccepted は受理判定。
	DecisionAccepted Decision = "Accepted"
	// DecisionRejected は却下判定。
	DecisionRejected Decision = "Rejected"
)

// IsValid はDecisionが列挙値のいずれかであるかを返す。
func (d Decision) IsValid() bool {
	switch d {
	case DecisionPending, DecisionAccepted, DecisionRejected:
		return true
	}
	return false
}

// ReportInput は通報作成の入力。必須4フィールドと任意3フィールドを持つ。
// urgencyは作成時には自由テキストとして受け付ける（列挙チェックしない）。
type ReportInput struct {
	AnimalType    string
	Urgency       string
	LocationText  string
	Description   string
	Geo           string
	ReporterName  string
	ReporterPhone string
}

// ReportPatch は通報の部分更新。nilフィールドは変更しない。
type ReportPatch struct {
	Status     *string
	Decision   *string
	AssignedTo *string
}

// IsEmpty は適用すべきフィールドが1つもないかを返す。
func (p ReportPatch) IsEmpty() bool {
	return p.Status == nil && p.Decision == nil && p.AssignedTo == nil
}
