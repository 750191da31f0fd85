// file: internals/constants/roles.go
package constants

// Role is the fixed role enumeration. Roles gate mutators; they are mutable
// only through admin user mutators.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleGuardian    Role = "guardian"
	RoleCoordinator Role = "coordinator"
	RoleFacilitator Role = "facilitator"
	RoleTrainer     Role = "trainer"
	RoleFinance     Role = "finance"
)

func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleGuardian, RoleCoordinator, RoleFacilitator, RoleTrainer, RoleFinance:
		return true
	}
	return false
}

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func ValidGender(g Gender) bool {
	return g == GenderMale || g == GenderFemale
}
