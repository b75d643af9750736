package models

type UserRole string

const (
	AdminRole   UserRole = "ADMIN"
	ManagerRole UserRole = "MANAGER"
	MemberRole  UserRole = "MEMBER"
)

var roleHumanName = map[UserRole]string{
	AdminRole:   "Administrator",
	ManagerRole: "Manager",
	MemberRole:  "Member",
}

func (r UserRole) ToHuman() string {
	if human, exist := roleHumanName[r]; exist {
		return human
	}
	return string(r)
}

func (r UserRole) IsValid() bool {
	_, exist := roleHumanName[r]
	return exist
}

const SystemUser = "System"
