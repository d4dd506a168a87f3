package resolve

// Role is a semantic tag a dataset column can fulfill.
type Role string

const (
	RoleIdentifier      Role = "identifier"
	RoleGivenName       Role = "given_name"
	RolePaternalSurname Role = "paternal_surname"
	RoleMaternalSurname Role = "maternal_surname"
	RoleFullName        Role = "full_name"
)

// Roles lists every known role in resolution order.
var Roles = []Role{RoleIdentifier, RoleGivenName, RolePaternalSurname, RoleMaternalSurname, RoleFullName}

// defaultCatalog maps each role to the lower-cased, trimmed header variants
// seen across the registry exports this tool reconciles. The identifier list
// doubles as the keyword set for header-row detection.
var defaultCatalog = map[Role][]string{
	RoleIdentifier: {
		"id_rut", "rut", "id", "id_usuario", "usuario_id", "documento", "doc",
		"cedula", "ficha", "folio", "caso", "n_solicitud", "identificador",
	},
	RoleGivenName: {
		"nombres", "nombre", "nombres paciente", "nombre paciente",
		"previsión nombres", "nombres_beneficiario",
	},
	RolePaternalSurname: {
		"apellido paterno", "paterno", "apellidopaterno", "primer apellido",
		"apellido 1", "apellido_paterno",
	},
	RoleMaternalSurname: {
		"apellido materno", "materno", "apellidomaterno", "segundo apellido",
		"apellido 2", "apellido_materno",
	},
	RoleFullName: {
		"nombre completo", "nombre y apellido", "apellidos y nombres",
		"nombre_completo", "paciente", "nombre beneficiario",
	},
}

// IdentifierKeywords returns the identifier variant list used by the loader
// for header-row detection.
func IdentifierKeywords() []string {
	out := make([]string, len(defaultCatalog[RoleIdentifier]))
	copy(out, defaultCatalog[RoleIdentifier])
	return out
}

// ParseRole maps a user-supplied field name to a Role. It accepts both the
// canonical role names and the short aliases used on the command line.
func ParseRole(s string) (Role, bool) {
	switch s {
	case "identifier", "id", "rut":
		return RoleIdentifier, true
	case "given_name", "given", "nombre":
		return RoleGivenName, true
	case "paternal_surname", "paternal", "paterno":
		return RolePaternalSurname, true
	case "maternal_surname", "maternal", "materno":
		return RoleMaternalSurname, true
	case "full_name", "full":
		return RoleFullName, true
	}
	return "", false
}
