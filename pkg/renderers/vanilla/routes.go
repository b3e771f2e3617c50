package vanilla

// Form action routes, relative to RenderOptions.BasePath. Every control posts
// an urlencoded form to one of them; the HTTP server mounts the same paths.
//
// Single and multiple choice fields post to their own name ("/presentation",
// "/authorities"): selects send one "value" where empty clears the choice,
// multi-selects send repeated "value" entries.
const (
	// RouteFlags + "/{name}" takes "value"; the last entry wins.
	RouteFlags = "flags"
	// RouteHandlersAdd takes "scope" ("shared" or a dynamic index) and "text".
	RouteHandlersAdd = "handlers/add"
	// RouteHandlersRemove takes "scope" and "index".
	RouteHandlersRemove = "handlers/remove"
	// RouteDynamicsAdd appends a record.
	RouteDynamicsAdd = "dynamics/add"
	// RouteDynamicsRemoveLast drops the final record.
	RouteDynamicsRemoveLast = "dynamics/remove-last"
	// RouteDynamics + "/{index}" takes "field" and "value".
	RouteDynamics = "dynamics"
	RouteImport   = "import"
	RouteReset    = "reset"
	RouteExport   = "export"
	RouteAssets   = "assets"
)

// ScopeShared is the "scope" form value targeting the document-level
// handler list.
const ScopeShared = "shared"
