package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/vetalert/vetalert/internal/model"
)

// uniqueViolation はPostgreSQLの一意制約違反のエラーコード。
const uniqueViolation = "23505"

// PostgresReportRepo はPostgreSQLを使用した通報リポジトリ。
type PostgresReportRepo struct {
	db *sql.DB
}

// NewPostgresReportRepo はPostgresReportRepoを生成する。
func NewPostgresReportRepo(db *sql.DB) *PostgresReportRepo {
	return &PostgresReportRepo{db: db}
}

// Insert は新規通報を挿入する。idが重複する場合はErrDuplicateIDを返す。
func (r *PostgresReportRepo) Insert(ctx context.Context, report *model.Report) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO reports
		 (id, animal_type, urgency, location_text, description, geo, reporter_name, reporter_phone, status, decision, assigned_to, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		report.ID, report.AnimalType, report.Urgency, report.LocationText,
		report.Description, report.Geo, report.ReporterName, report.ReporterPhone,
		string(report.Status), string(report.Decision), report.AssignedTo, report.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return fmt.Errorf("insert report %s: %w", report.ID, ErrDuplicateID)
		}
		return fmt.Errorf("failed to insert report: %w", err)
	}
	return nil
}

// ListAll は全通報をcreated_at降順で返す。
func (r *PostgresReportRepo) ListAll(ctx context.Context) ([]*model.Report, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, animal_type, urgency, location_text, description, geo, reporter_name, reporter_phone, status, decision, assigned_to, created_at
		 FROM reports
		 ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []*model.Report
	for rows.Next() {
		report := &model.Report{}
		var status, decision string
		if err := rows.Scan(
			&report.ID, &report.AnimalType, &report.Urgency, &report.LocationText,
			&report.Description, &report.Geo, &report.ReporterName, &report.ReporterPhone,
			&status, &decision, &report.AssignedTo, &report.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		report.Status = model.Status(status)
		report.Decision = model.Decision(decision)
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reports: %w", err)
	}

	return reports, nil
}

// UpdatePartial はpatchのnilでないフィールドのみをidのレコードに適用する。
// 一致する行がない場合はno-op（エラーにしない）。
// 空パッチの検出は呼び出し側（サービス層）の責務であり、ここでは防御的にno-opとする。
func (r *PostgresReportRepo) UpdatePartial(ctx context.Context, id string, patch model.ReportPatch) error {
	var sets []string
	var args []any

	if patch.Status != nil {
		args = append(args, *patch.Status)
		sets = append(sets, fmt.Sprintf("status = $%d", len(args)))
	}
	if patch.Decision != nil {
		args = append(args, *patch.Decision)
		sets = append(sets, fmt.Sprintf("decision = $%d", len(args)))
	}
	if patch.AssignedTo != nil {
		args = append(args, *patch.AssignedTo)
		sets = append(sets, fmt.Sprintf("assigned_to = $%d", len(args)))
	}

	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE reports SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update report: %w", err)
	}
	return nil
}

// compile-time interface check
var _ ReportRepository = (*PostgresReportRepo)(nil)
