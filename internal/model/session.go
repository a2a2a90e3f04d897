// Package model はドメインモデルを定義する。
package model

import "time"

// Role はセッションに紐づくロールを表す。
type Role string

const (
	// RoleCitizen は通報を投稿する市民ロール。
	RoleCitizen Role = "citizen"
	// RoleRescuer は通報を閲覧・トリアージするNGOオペレーターロール。
	RoleRescuer Role = "rescuer"
)

// Session はブラウザごとの認証・ロール状態を表す。
// 市民セッションはName、レスキュアーセッションはOrgを保持する。
// Reportとは異なりレコードストアの対象外（セッションテーブルで管理）。
type Session struct {
	ID        string
	Role      Role
	Name      string
	Org       string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsRescuer はレスキュアーロールのセッションかを返す。
func (s *Session) IsRescuer() bool {
	return s != nil && s.Role == RoleRescuer
}
