// Package report は通報のライフサイクル（作成・一覧・トリアージ更新）の
// ビジネスロジックを提供する。
package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/vetalert/vetalert/internal/model"
	"github.com/vetalert/vetalert/internal/repository"
	"github.com/vetalert/vetalert/internal/security"
)

// maxIDRetries はid衝突時の再生成リトライ上限。
// idは "VA-<ミリ秒エポック>" 形式のため、同一ミリ秒の同時投稿でのみ衝突する。
const maxIDRetries = 3

// Service は通報管理のサービス層。
type Service struct {
	repo      repository.ReportRepository
	sanitizer security.InputSanitizerService
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(repo repository.ReportRepository, sanitizer security.InputSanitizerService) *Service {
	return &Service{
		repo:      repo,
		sanitizer: sanitizer,
	}
}

// Create は通報を検証・サニタイズして保存し、生成したidを返す。
// 必須4フィールド（animalType, urgency, locationText, description）は
// トリム後に空だとMISSING_REQUIRED_FIELDSエラーになる。
// urgencyは自由テキストとして受け付け、列挙チェックは行わない。
// idはサーバー側で "VA-<ミリ秒エポック>" として生成し、
// ストアが重複を報告した場合は新しいタイムスタンプで再試行する。
func (s *Service) Create(ctx context.Context, input model.ReportInput) (string, error) {
	input = s.normalize(input)

	if input.AnimalType == "" || input.Urgency == "" || input.LocationText == "" || input.Description == "" {
		return "", model.NewMissingRequiredFieldsError()
	}

	var lastErr error
	for attempt := 0; attempt < maxIDRetries; attempt++ {
		now := time.Now().UTC()
		rpt := &model.Report{
			ID:            fmt.Sprintf("VA-%d", now.UnixMilli()),
			AnimalType:    input.AnimalType,
			Urgency:       input.Urgency,
			LocationText:  input.LocationText,
			Description:   input.Description,
			Geo:           input.Geo,
			ReporterName:  input.ReporterName,
			ReporterPhone: input.ReporterPhone,
			Status:        model.StatusReported,
			Decision:      model.DecisionPending,
			AssignedTo:    "",
			CreatedAt:     now,
		}

		err := s.repo.Insert(ctx, rpt)
		if err == nil {
			slog.Info("report created",
				slog.String("report_id", rpt.ID),
				slog.String("animal_type", rpt.AnimalType),
				slog.String("urgency", rpt.Urgency),
			)
			return rpt.ID, nil
		}
		if !errors.Is(err, repository.ErrDuplicateID) {
			return "", fmt.Errorf("failed to store report: %w", err)
		}

		// 同一ミリ秒の衝突。次のミリ秒まで待って再生成する。
		lastErr = err
		time.Sleep(time.Millisecond)
	}

	return "", fmt.Errorf("failed to generate unique report id after %d attempts: %w", maxIDRetries, lastErr)
}

// List は全通報をcreatedAt降順で返す。
// ロールの認可チェックはHTTP層のミドルウェアで行われ、
// 未認可リクエストはここに到達する前に遮断される。
func (s *Service) List(ctx context.Context) ([]*model.Report, error) {
	reports, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, nil
}

// Update はstatus/decision/assignedToの部分更新を検証して適用する。
// statusとdecisionは列挙値のみ許可する。値間の遷移順序は制約しない。
// assignedToは空文字列を含め自由テキストとして無条件に受け付ける。
// 適用フィールドが1つもないパッチはNOTHING_TO_UPDATEエラーになる
// （ストア呼び出しは発生しない）。
// 存在しないidへの更新はストア契約によりno-op成功となる。
func (s *Service) Update(ctx context.Context, id string, patch model.ReportPatch) error {
	if patch.Status != nil && !model.Status(*patch.Status).IsValid() {
		return model.NewInvalidStatusError()
	}
	if patch.Decision != nil && !model.Decision(*patch.Decision).IsValid() {
		return model.NewInvalidDecisionError()
	}
	if patch.IsEmpty() {
		return model.NewNothingToUpdateError()
	}

	if err := s.repo.UpdatePartial(ctx, id, patch); err != nil {
		return fmt.Errorf("failed to update report: %w", err)
	}

	slog.Info("report updated",
		slog.String("report_id", id),
		slog.Bool("status_changed", patch.Status != nil),
		slog.Bool("decision_changed", patch.Decision != nil),
		slog.Bool("assignee_changed", patch.AssignedTo != nil),
	)
	return nil
}

// normalize は全入力フィールドをトリムし、自由テキストをサニタイズする。
func (s *Service) normalize(input model.ReportInput) model.ReportInput {
	clean := func(v string) string {
		v = strings.TrimSpace(v)
		if s.sanitizer != nil {
			v = s.sanitizer.Sanitize(v)
		}
		return v
	}

	return model.ReportInput{
		AnimalType:    clean(input.AnimalType),
		Urgency:       clean(input.Urgency),
		LocationText:  clean(input.LocationText),
		Description:   clean(input.Description),
		Geo:           clean(input.Geo),
		ReporterName:  clean(input.ReporterName),
		ReporterPhone: clean(input.ReporterPhone),
	}
}
