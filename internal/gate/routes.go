package gate

import "strings"

// Известные пути страниц.
const (
	RootPath           = "/"
	LoginPath          = "/login"
	RegisterPath       = "/register"
	DashboardPath      = "/dashboard"
	AdminDashboardPath = "/admin/dashboard"
	UnauthorizedPath   = "/unauthorized"
)

var (
	// publicRoutes — страницы без сессии.
	publicRoutes = []string{"/forgot-password", "/change-password", UnauthorizedPath}

	// authRoutes — страницы входа: валидная сессия уводится на дашборд.
	authRoutes = []string{LoginPath, RegisterPath}

	// adminRoutes — префиксы, требующие привилегий не ниже администратора.
	adminRoutes = []string{"/admin"}
)

func matchesAny(path string, routes []string) bool {
	for _, r := range routes {
		if strings.HasPrefix(path, r) {
			return true
		}
	}

	return false
}

func isPublicRoute(path string) bool { return matchesAny(path, publicRoutes) }
func isAuthRoute(path string) bool   { return matchesAny(path, authRoutes) }
func isAdminRoute(path string) bool  { return matchesAny(path, adminRoutes) }
