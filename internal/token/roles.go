package token

// Role — роль пользователя из claims access-токена.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
	RoleGuest Role = "guest"
)

// Уровни привилегий образуют строгий порядок: проверки доступа сравнивают
// уровни, а не строки, поэтому новая роль встраивается в иерархию без
// изменения логики гейта.
var roleLevels = map[Role]int{
	RoleAdmin: 3,
	RoleUser:  1,
	RoleGuest: 0,
}

// Level возвращает порядковый уровень привилегий роли.
// Неизвестная роль приравнивается к гостю.
func (r Role) Level() int {
	if lvl, ok := roleLevels[r]; ok {
		return lvl
	}

	return roleLevels[RoleGuest]
}

// AtLeast сообщает, достаточно ли привилегий роли для порога min.
func (r Role) AtLeast(min Role) bool {
	return r.Level() >= min.Level()
}

// IsAdmin — привилегии не ниже администратора.
func (r Role) IsAdmin() bool {
	return r.AtLeast(RoleAdmin)
}

// Dashboard возвращает стартовый дашборд для роли.
func (r Role) Dashboard() string {
	if r.IsAdmin() {
		return "/admin/dashboard"
	}

	return "/dashboard"
}
