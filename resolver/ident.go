package resolver

// Ident is a stable logical name for one host runtime function. The set is
// closed: bindings address functions through these constants, never through
// ad hoc strings at call time.
type Ident string

// The interpreter C API surface the bridge resolves. Logical names follow
// the host's unmangled C exports; platform-specific mangling, when any,
// belongs in the signature configuration.
const (
	IdentNewState       Ident = "luaL_newstate"
	IdentOpenLibs       Ident = "luaL_openlibs"
	IdentLoadFile       Ident = "luaL_loadfile"
	IdentLoadString     Ident = "luaL_loadstring"
	IdentLoadBuffer     Ident = "luaL_loadbuffer"
	IdentCheckInteger   Ident = "luaL_checkinteger"
	IdentCheckLString   Ident = "luaL_checklstring"
	IdentCheckNumber    Ident = "luaL_checknumber"
	IdentCheckType      Ident = "luaL_checktype"
	IdentCheckUserdata  Ident = "luaL_checkudata"
	IdentRef            Ident = "luaL_ref"
	IdentUnref          Ident = "luaL_unref"
	IdentCall           Ident = "lua_call"
	IdentPCall          Ident = "lua_pcall"
	IdentError          Ident = "lua_error"
	IdentGetField       Ident = "lua_getfield"
	IdentSetField       Ident = "lua_setfield"
	IdentGetTable       Ident = "lua_gettable"
	IdentSetTable       Ident = "lua_settable"
	IdentCreateTable    Ident = "lua_createtable"
	IdentGetMetatable   Ident = "lua_getmetatable"
	IdentSetMetatable   Ident = "lua_setmetatable"
	IdentGetTop         Ident = "lua_gettop"
	IdentSetTop         Ident = "lua_settop"
	IdentInsert         Ident = "lua_insert"
	IdentRemove         Ident = "lua_remove"
	IdentReplace        Ident = "lua_replace"
	IdentPushValue      Ident = "lua_pushvalue"
	IdentPushNil        Ident = "lua_pushnil"
	IdentPushBoolean    Ident = "lua_pushboolean"
	IdentPushInteger    Ident = "lua_pushinteger"
	IdentPushNumber     Ident = "lua_pushnumber"
	IdentPushLString    Ident = "lua_pushlstring"
	IdentPushCClosure   Ident = "lua_pushcclosure"
	IdentPushLightUData Ident = "lua_pushlightuserdata"
	IdentToBoolean      Ident = "lua_toboolean"
	IdentToInteger      Ident = "lua_tointeger"
	IdentToNumber       Ident = "lua_tonumber"
	IdentToLString      Ident = "lua_tolstring"
	IdentToUserdata     Ident = "lua_touserdata"
	IdentToPointer      Ident = "lua_topointer"
	IdentType           Ident = "lua_type"
	IdentTypeName       Ident = "lua_typename"
	IdentObjLen         Ident = "lua_objlen"
	IdentRawGetI        Ident = "lua_rawgeti"
	IdentRawSetI        Ident = "lua_rawseti"
	IdentRawEqual       Ident = "lua_rawequal"
	IdentNext           Ident = "lua_next"
	IdentGetInfo        Ident = "lua_getinfo"
	IdentGetStack       Ident = "lua_getstack"
)

var required = []Ident{
	IdentNewState, IdentOpenLibs,
	IdentLoadFile, IdentLoadString, IdentLoadBuffer,
	IdentCheckInteger, IdentCheckLString, IdentCheckNumber,
	IdentCheckType, IdentCheckUserdata,
	IdentRef, IdentUnref,
	IdentCall, IdentPCall, IdentError,
	IdentGetField, IdentSetField, IdentGetTable, IdentSetTable,
	IdentCreateTable, IdentGetMetatable, IdentSetMetatable,
	IdentGetTop, IdentSetTop, IdentInsert, IdentRemove, IdentReplace,
	IdentPushValue, IdentPushNil, IdentPushBoolean, IdentPushInteger,
	IdentPushNumber, IdentPushLString, IdentPushCClosure, IdentPushLightUData,
	IdentToBoolean, IdentToInteger, IdentToNumber, IdentToLString,
	IdentToUserdata, IdentToPointer,
	IdentType, IdentTypeName, IdentObjLen,
	IdentRawGetI, IdentRawSetI, IdentRawEqual, IdentNext,
	IdentGetInfo, IdentGetStack,
}

// Required returns the identifiers every load must resolve, in the fixed
// order resolution reports them. The returned slice is a copy.
func Required() []Ident {
	out := make([]Ident, len(required))
	copy(out, required)
	return out
}
