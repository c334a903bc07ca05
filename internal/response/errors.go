package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTeacherAccessOnly  ErrCode = "TEACHER_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound        ErrCode = "NOT_FOUND"
	ErrStudentNotFound ErrCode = "STUDENT_NOT_FOUND"
	ErrClassNotFound   ErrCode = "CLASS_NOT_FOUND"
	ErrExamNotFound    ErrCode = "EXAM_NOT_FOUND"
	ErrReportNotFound  ErrCode = "REPORT_NOT_FOUND"
	ErrDuplicateClass  ErrCode = "DUPLICATE_CLASS"
	ErrClassInUse      ErrCode = "CLASS_IN_USE"
	ErrExamInUse       ErrCode = "EXAM_IN_USE"

	// ─── Claim arbiter ─────────────────────────────────────────────────
	ErrStudentTaken     ErrCode = "STUDENT_TAKEN"
	ErrAlreadyCompleted ErrCode = "ALREADY_COMPLETED"
	ErrAlreadySubmitted ErrCode = "ALREADY_SUBMITTED"

	// ─── Exam gate ─────────────────────────────────────────────────────
	ErrExamClosed      ErrCode = "EXAM_CLOSED"
	ErrNoQuestions     ErrCode = "NO_QUESTIONS"
	ErrWrongPassword   ErrCode = "WRONG_PASSWORD"
	ErrNotPracticeMode ErrCode = "NOT_PRACTICE_MODE"
	ErrNoActiveSession ErrCode = "NO_ACTIVE_SESSION"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
// Messages are in Vietnamese, the language of the system's users.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Mật khẩu giáo viên không đúng."
	case ErrTokenRequired:
		return "Yêu cầu token xác thực."
	case ErrTokenInvalid:
		return "Token xác thực không hợp lệ."
	case ErrTeacherAccessOnly:
		return "Chức năng này chỉ dành cho giáo viên."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Dữ liệu không hợp lệ. Vui lòng kiểm tra lại."
	case ErrInvalidPayload:
		return "Nội dung yêu cầu không hợp lệ."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Không tìm thấy dữ liệu yêu cầu."
	case ErrStudentNotFound:
		return "Không tìm thấy học sinh."
	case ErrClassNotFound:
		return "Không tìm thấy lớp."
	case ErrExamNotFound:
		return "Không tìm thấy bài kiểm tra."
	case ErrReportNotFound:
		return "Không tìm thấy báo cáo."
	case ErrDuplicateClass:
		return "Tên lớp đã tồn tại."
	case ErrClassInUse:
		return "Không thể xóa lớp đang sử dụng."
	case ErrExamInUse:
		return "Không thể xóa bài kiểm tra đang sử dụng."

	// ─── Claim arbiter ─────────────────────────────────────────────────
	case ErrStudentTaken:
		return "Tên này đã được chọn bởi người khác."
	case ErrAlreadyCompleted:
		return "Học sinh này đã hoàn thành bài thi."
	case ErrAlreadySubmitted:
		return "Bạn đã nộp bài rồi. Không thể nộp lại!"

	// ─── Exam gate ─────────────────────────────────────────────────────
	case ErrExamClosed:
		return "Bài thi chưa được mở."
	case ErrNoQuestions:
		return "Chưa có câu hỏi nào trong bài thi."
	case ErrWrongPassword:
		return "Mật khẩu không đúng!"
	case ErrNotPracticeMode:
		return "Chế độ ôn tập chưa được bật."
	case ErrNoActiveSession:
		return "Chưa chọn lớp và bài kiểm tra."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Quá nhiều yêu cầu. Vui lòng thử lại sau."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Lỗi máy chủ. Vui lòng thử lại."
	default:
		return "Đã xảy ra lỗi không xác định."
	}
}
