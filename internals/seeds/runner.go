package seeds

import (
	schools "schoolku_backend/internals/seeds/schools"
	users "schoolku_backend/internals/seeds/users"

	"gorm.io/gorm"
)

// RunAllSeeds mengisi data awal untuk development. Urutan penting:
// sekolah dulu, baru user yang menunjuk ke sekolah lewat school_code.
func RunAllSeeds(db *gorm.DB) {

	//* Sekolah
	schools.SeedSchoolsFromJSON(db, "internals/seeds/schools/data_schools.json")

	//* User
	users.SeedUsersFromJSON(db, "internals/seeds/users/data_users.json")

}
