package sim

// AdminStatusWriter allows writers to show whether the admin server is up.
type AdminStatusWriter interface {
	SetAdminStatus(listening bool)
}
