//go:build windows

package executor

import "golang.org/x/sys/windows"

// isRoot returns true if the current process is running with administrator privileges on Windows.
func isRoot() bool {
	var sid *windows.SID

	err := windows.AllocateAndInitializeSid(
		&windows.SECURITY_NT_AUTHORITY,
		2,
		windows.SECURITY_BUILTIN_DOMAIN_RID,
		windows.DOMAIN_ALIAS_RID_ADMINS,
		0, 0, 0, 0, 0, 0,
		&sid)
	if err != nil {
		return false
	}
	defer windows.FreeSid(sid)

	token := windows.Token(0)
	member, err := token.IsMember(sid)
	if err != nil {
		return false
	}
	return member
}

// hasSudo returns true if a sudo implementation is on the search path:
// the built-in sudo of Windows 11 or gsudo.
func hasSudo() bool {
	for _, name := range []string{"sudo.exe", "gsudo.exe"} {
		if _, err := lookPath(name); err == nil {
			return true
		}
	}
	return false
}
