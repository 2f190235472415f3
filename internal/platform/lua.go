package platform

import (
	lua "github.com/yuin/gopher-lua"
)

// InjectPlatformTable creates a read-only platform table and injects it into
// the Lua state as a global. Call it before loading user configuration so
// configs can pick versions or directories per host, e.g.
//
//	kupo = { version = platform.is_macos and "2.8.0" or "2.9.0" }
func InjectPlatformTable(L *lua.LState, info *Info) error {
	if info == nil {
		return errNoInfo
	}

	fields := L.NewTable()
	for name, value := range map[string]lua.LValue{
		"os":        lua.LString(info.OS),
		"os_family": lua.LString(info.OSFamily().String()),
		"arch":      lua.LString(info.Arch),
		"arch_raw":  lua.LString(info.ArchRaw),
		"is_linux":  lua.LBool(info.IsLinux()),
		"is_macos":  lua.LBool(info.IsMacOS()),
		"is_amd64":  lua.LBool(info.IsAMD64()),
		"is_arm64":  lua.LBool(info.IsARM64()),
	} {
		fields.RawSetString(name, value)
	}

	if info.HasDistro() {
		distro := L.NewTable()
		distro.RawSetString("id", lua.LString(info.Platform))
		distro.RawSetString("family", lua.LString(info.Family))
		distro.RawSetString("version", lua.LString(info.Version))
		fields.RawSetString("distro", distro)
	}

	// when(cond, value) yields value or nil, for optional table entries.
	fields.RawSetString("when", L.NewFunction(func(L *lua.LState) int {
		if L.CheckBool(1) {
			L.Push(L.Get(2))
		} else {
			L.Push(lua.LNil)
		}
		return 1
	}))

	L.SetGlobal("platform", makeReadOnly(L, fields))
	return nil
}

// makeReadOnly returns an empty proxy table whose metatable redirects reads
// to table and rejects every write.
func makeReadOnly(L *lua.LState, table *lua.LTable) *lua.LTable {
	mt := L.NewTable()
	L.SetField(mt, "__index", table)
	L.SetField(mt, "__newindex", L.NewFunction(func(L *lua.LState) int {
		L.RaiseError("platform table is read-only and cannot be modified")
		return 0
	}))
	L.SetField(mt, "__metatable", lua.LString("protected"))

	proxy := L.NewTable()
	L.SetMetatable(proxy, mt)

	return proxy
}
