package enginev1

// ConfigScope selects which session's Config a SetConfig/GetConfig call
// targets.
type ConfigScope int32

const (
	ConfigScope_CLUSTER    ConfigScope = 0
	ConfigScope_CONNECTION ConfigScope = 1
)

// TableRef addresses a catalog/schema/table triple; Catalog and Schema may
// be empty to select the session's current defaults.
type TableRef struct {
	Catalog string `json:"catalog,omitempty"`
	Schema  string `json:"schema,omitempty"`
	Table   string `json:"table"`
}

type CreateCatalogReq struct {
	Catalog     string `json:"catalog"`
	IfNotExists bool   `json:"if_not_exists,omitempty"`
}
type CreateCatalogResp struct{}

type CreateSchemaReq struct {
	Catalog     string `json:"catalog,omitempty"`
	Schema      string `json:"schema"`
	IfNotExists bool   `json:"if_not_exists,omitempty"`
}
type CreateSchemaResp struct{}

type TableInfo struct {
	Comment     string `json:"comment,omitempty"`
	SchemaBytes []byte `json:"schema_bytes,omitempty"`
}

type CreateTableReq struct {
	Table       *TableRef  `json:"table"`
	Info        *TableInfo `json:"info"`
	IfNotExists bool       `json:"if_not_exists,omitempty"`
	OrReplace   bool       `json:"or_replace,omitempty"`
}
type CreateTableResp struct {
	Table *TableRef  `json:"table"`
	Info  *TableInfo `json:"info"`
}

type TopicInfo struct {
	Comment       string `json:"comment,omitempty"`
	BufferBatches int32  `json:"buffer_batches,omitempty"`
	SchemaBytes   []byte `json:"schema_bytes,omitempty"`
}

type CreateTopicReq struct {
	Table       *TableRef  `json:"table"`
	Info        *TopicInfo `json:"info"`
	IfNotExists bool       `json:"if_not_exists,omitempty"`
	OrReplace   bool       `json:"or_replace,omitempty"`
}
type CreateTopicResp struct {
	Table *TableRef  `json:"table"`
	Info  *TopicInfo `json:"info"`
}

type ViewInfo struct {
	Query       string `json:"query,omitempty"`
	SchemaBytes []byte `json:"schema_bytes,omitempty"`
}

type CreateViewReq struct {
	Table       *TableRef `json:"table"`
	Info        *ViewInfo `json:"info"`
	IfNotExists bool      `json:"if_not_exists,omitempty"`
	OrReplace   bool      `json:"or_replace,omitempty"`
}
type CreateViewResp struct {
	Table *TableRef `json:"table"`
	Info  *ViewInfo `json:"info"`
}

type GetTableReq struct {
	Table *TableRef `json:"table"`
}

// GetTableResp's Table and Info are both nil when the table does not
// exist; a mixed population is a protocol violation (spec.md section 4.5).
type GetTableResp struct {
	Table *TableRef  `json:"table,omitempty"`
	Info  *TableInfo `json:"info,omitempty"`
}

type Config struct {
	Scope  ConfigScope `json:"scope"`
	Config []byte      `json:"config"`
}
type SetConfigResp struct{}

type GetConfigReq struct {
	Scope ConfigScope `json:"scope"`
}
type GetConfigResp struct {
	Config []byte `json:"config"`
}
