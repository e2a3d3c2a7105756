package enrollment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	enrolldb "github.com/nao1215/campus/internal/enrollment/db"
	"github.com/nao1215/campus/pkg/httpclient"
)

// statusActive は有効な受講登録を表すステータス値。
const statusActive = "ACTIVE"

var (
	// ErrDuplicateEnrollment は同一の講座・学生の組み合わせが既に有効な状態で存在することを表す。
	ErrDuplicateEnrollment = errors.New("この講座への受講登録が既に存在します")
	// ErrEnrollmentNotFound は指定されたIDの受講登録が存在しないことを表す。
	ErrEnrollmentNotFound = errors.New("受講登録が見つかりません")
	// ErrTeacherRequired は教員必須設定で教員IDが指定されていないことを表す。
	ErrTeacherRequired = errors.New("教員IDの指定が必須です")
)

// ReferenceNotFoundError は参照先レコードの存在が確認できなかったことを表す。
// 参照先サービスへの到達失敗も「存在が確認できない」として同じ扱いにする。
type ReferenceNotFoundError struct {
	// Kind は確認に失敗した参照先の種別（student / course / teacher）。
	Kind string
}

// Error はエラーメッセージを返す。
func (e *ReferenceNotFoundError) Error() string {
	return fmt.Sprintf("参照先の存在を確認できません: %s", e.Kind)
}

// Coordinator は受講登録の整合性を調整する。
// 登録前に学生・講座・教員の存在を各サービスへ並行に問い合わせ、
// 1つでも確認できなければ登録を拒否する。
type Coordinator struct {
	// queries はsqlcが生成したクエリ実行オブジェクト。
	queries *enrolldb.Queries
	// studentClient は学生サービスへのHTTPクライアント。
	studentClient *httpclient.Client
	// courseClient は講座サービスへのHTTPクライアント。
	courseClient *httpclient.Client
	// teacherClient は教員サービスへのHTTPクライアント。
	teacherClient *httpclient.Client
	// checkTimeout は存在確認1往復あたりの時間制限。
	checkTimeout time.Duration
	// requireTeacher がtrueの場合、登録時に教員IDの指定を必須とする。
	requireTeacher bool
}

// NewCoordinator は新しい受講登録コーディネーターを生成する。
func NewCoordinator(
	queries *enrolldb.Queries,
	studentClient, courseClient, teacherClient *httpclient.Client,
	checkTimeout time.Duration,
	requireTeacher bool,
) *Coordinator {
	return &Coordinator{
		queries:        queries,
		studentClient:  studentClient,
		courseClient:   courseClient,
		teacherClient:  teacherClient,
		checkTimeout:   checkTimeout,
		requireTeacher: requireTeacher,
	}
}

// Create は受講登録を作成する。
// 学生・講座（および教員IDが指定されていれば教員）の存在確認が
// すべて成功した場合のみレコードを挿入する。
// statusが空の場合はACTIVEで登録する。
func (co *Coordinator) Create(ctx context.Context, courseID, studentID, teacherID, status string) (enrolldb.Enrollment, error) {
	if co.requireTeacher && teacherID == "" {
		return enrolldb.Enrollment{}, ErrTeacherRequired
	}
	if status == "" {
		status = statusActive
	}

	// ローカルの重複チェックを先に行い、重複時は参照先への問い合わせを省略する。
	// 同時リクエストの競合はDBの部分ユニークインデックスで閉じる
	exists, err := co.queries.ExistsActiveEnrollment(ctx, enrolldb.ExistsActiveEnrollmentParams{
		CourseID:  courseID,
		StudentID: studentID,
	})
	if err != nil {
		return enrolldb.Enrollment{}, fmt.Errorf("重複チェックに失敗: %w", err)
	}
	if exists {
		return enrolldb.Enrollment{}, ErrDuplicateEnrollment
	}

	if err := co.verifyReferences(ctx, courseID, studentID, teacherID); err != nil {
		return enrolldb.Enrollment{}, err
	}

	enrollmentID := uuid.New().String()
	err = co.queries.CreateEnrollment(ctx, enrolldb.CreateEnrollmentParams{
		ID:        enrollmentID,
		CourseID:  courseID,
		StudentID: studentID,
		TeacherID: toNullString(teacherID),
		Status:    status,
	})
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return enrolldb.Enrollment{}, ErrDuplicateEnrollment
		}
		return enrolldb.Enrollment{}, fmt.Errorf("受講登録の作成に失敗: %w", err)
	}

	created, err := co.queries.GetEnrollmentByID(ctx, enrollmentID)
	if err != nil {
		return enrolldb.Enrollment{}, fmt.Errorf("作成した受講登録の取得に失敗: %w", err)
	}
	return created, nil
}

// verifyReferences は参照先レコードの存在を各サービスへ並行に問い合わせる。
// タイムアウト・接続失敗・非2xxレスポンスはすべて「存在が確認できない」として扱う。
func (co *Coordinator) verifyReferences(ctx context.Context, courseID, studentID, teacherID string) error {
	checkCtx, cancel := context.WithTimeout(ctx, co.checkTimeout)
	defer cancel()

	g, checkCtx := errgroup.WithContext(checkCtx)

	g.Go(func() error {
		if err := co.studentClient.GetJSON(checkCtx, "/api/v1/students/"+studentID, nil); err != nil {
			return &ReferenceNotFoundError{Kind: "student"}
		}
		return nil
	})
	g.Go(func() error {
		if err := co.courseClient.GetJSON(checkCtx, "/api/v1/courses/"+courseID, nil); err != nil {
			return &ReferenceNotFoundError{Kind: "course"}
		}
		return nil
	})
	if teacherID != "" {
		g.Go(func() error {
			if err := co.teacherClient.GetJSON(checkCtx, "/api/v1/teachers/"+teacherID, nil); err != nil {
				return &ReferenceNotFoundError{Kind: "teacher"}
			}
			return nil
		})
	}

	return g.Wait()
}

// Get は指定されたIDの受講登録を取得する。
func (co *Coordinator) Get(ctx context.Context, id string) (enrolldb.Enrollment, error) {
	enrollment, err := co.queries.GetEnrollmentByID(ctx, id)
	if err == sql.ErrNoRows {
		return enrolldb.Enrollment{}, ErrEnrollmentNotFound
	}
	if err != nil {
		return enrolldb.Enrollment{}, fmt.Errorf("受講登録の取得に失敗: %w", err)
	}
	return enrollment, nil
}

// List は受講登録の一覧を取得する。
// courseID / studentID / teacherID のいずれかが指定されていれば絞り込む。
func (co *Coordinator) List(ctx context.Context, courseID, studentID, teacherID string) ([]enrolldb.Enrollment, error) {
	switch {
	case courseID != "":
		return co.queries.ListEnrollmentsByCourseID(ctx, courseID)
	case studentID != "":
		return co.queries.ListEnrollmentsByStudentID(ctx, studentID)
	case teacherID != "":
		return co.queries.ListEnrollmentsByTeacherID(ctx, toNullString(teacherID))
	default:
		return co.queries.ListEnrollments(ctx)
	}
}

// Update は受講登録のステータスと担当教員を更新する。
// 参照先の再確認は行わない。登録時に確認済みの組み合わせを変更する操作ではないため。
func (co *Coordinator) Update(ctx context.Context, id, status, teacherID string) (enrolldb.Enrollment, error) {
	if _, err := co.Get(ctx, id); err != nil {
		return enrolldb.Enrollment{}, err
	}

	err := co.queries.UpdateEnrollment(ctx, enrolldb.UpdateEnrollmentParams{
		Status:    status,
		TeacherID: toNullString(teacherID),
		ID:        id,
	})
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return enrolldb.Enrollment{}, ErrDuplicateEnrollment
		}
		return enrolldb.Enrollment{}, fmt.Errorf("受講登録の更新に失敗: %w", err)
	}

	return co.Get(ctx, id)
}

// Delete は受講登録を削除する。
func (co *Coordinator) Delete(ctx context.Context, id string) error {
	if _, err := co.Get(ctx, id); err != nil {
		return err
	}

	if err := co.queries.DeleteEnrollment(ctx, id); err != nil {
		return fmt.Errorf("受講登録の削除に失敗: %w", err)
	}
	return nil
}

// toNullString は空文字列をNULLに変換する。
func toNullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
