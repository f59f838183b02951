package database

import (
	"gorm.io/gorm"

	attendanceModel "schoolku_backend/internals/features/school/attendance/model"
	classModel "schoolku_backend/internals/features/school/classes/model"
	gradeModel "schoolku_backend/internals/features/school/grades/model"
	schoolModel "schoolku_backend/internals/features/school/schools/model"
	studentModel "schoolku_backend/internals/features/school/students/model"
	subjectModel "schoolku_backend/internals/features/school/subjects/model"
	teacherModel "schoolku_backend/internals/features/school/teachers/model"
	authModel "schoolku_backend/internals/features/users/auth/model"
	userModel "schoolku_backend/internals/features/users/user/model"
)

// Migrate creates/updates the schema. The unique indexes declared on the
// models are the authority for uniqueness; handlers rely on the constraint,
// never only on a pre-check query.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&schoolModel.SchoolModel{},
		&userModel.UserModel{},
		&authModel.RefreshTokenModel{},
		&studentModel.StudentModel{},
		&teacherModel.TeacherModel{},
		&classModel.ClassModel{},
		&subjectModel.SubjectModel{},
		&attendanceModel.AttendanceModel{},
		&gradeModel.GradeModel{},
	)
}
