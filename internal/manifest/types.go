// Package manifest loads pipeline manifests from YAML/JSON/TOML/HJSON and
// builds the Manifest/Group/Entry model that scheduler.Build turns into
// RunInfo/JobGroup values (spec §3,
// §6 "Manifest (loaded, not specified here)"). Unlike the distilled spec,
// which treats the loader as an external collaborator, this expansion
// ships a real one: it is the only way the engine described in §4 and §5
// ever receives work to do.
package manifest

// Raw* types mirror the manifest's on-disk schema across all four accepted
// formats. Struct tags cover yaml (yaml.v3), json (encoding/json, also used
// as the bridge format for HJSON decoding — see load.go), and toml
// (go-toml/v2, which decodes directly).

type RawManifest struct {
	Name      string                 `yaml:"name" json:"name" toml:"name"`
	Vars      map[string]interface{} `yaml:"vars" json:"vars" toml:"vars"`
	Auth      *RawAuth               `yaml:"auth" json:"auth" toml:"auth"`
	Pipeline  RawPipeline            `yaml:"pipeline" json:"pipeline" toml:"pipeline"`
	Resources []RawResource          `yaml:"resources" json:"resources" toml:"resources"`
}

// RawAuth is the manifest's top-level auth block (SPEC_FULL.md "Supplemented
// (auth provisioning)"): exactly one of ClientCredentials or Password should
// be set. The loader only carries it through to Manifest.Auth; cmd/cannon's
// resolveAuth resolves it once, before the scheduler starts, and injects the
// resulting bearer token into globals["token"].
type RawAuth struct {
	ClientCredentials *RawClientCredentialsAuth `yaml:"client_credentials" json:"client_credentials" toml:"client_credentials"`
	Password          *RawPasswordAuth          `yaml:"password" json:"password" toml:"password"`
}

type RawClientCredentialsAuth struct {
	ClientID     string   `yaml:"client_id" json:"client_id" toml:"client_id"`
	ClientSecret string   `yaml:"client_secret" json:"client_secret" toml:"client_secret"`
	TokenURL     string   `yaml:"token_url" json:"token_url" toml:"token_url"`
	Scopes       []string `yaml:"scopes" json:"scopes" toml:"scopes"`
}

type RawPasswordAuth struct {
	ClientID     string   `yaml:"client_id" json:"client_id" toml:"client_id"`
	ClientSecret string   `yaml:"client_secret" json:"client_secret" toml:"client_secret"`
	TokenURL     string   `yaml:"token_url" json:"token_url" toml:"token_url"`
	Username     string   `yaml:"username" json:"username" toml:"username"`
	Password     string   `yaml:"password" json:"password" toml:"password"`
	Scopes       []string `yaml:"scopes" json:"scopes" toml:"scopes"`
}

type RawPipeline struct {
	Groups []RawGroup `yaml:"groups" json:"groups" toml:"groups"`
}

// RawGroup is a named, ordered list of jobs. Manifests express groups as a
// list (rather than a map) precisely so group order — and therefore job
// order within a group — is well defined without relying on an
// order-preserving map decoder.
type RawGroup struct {
	Name string        `yaml:"name" json:"name" toml:"name"`
	Jobs []RawPipelineEntry `yaml:"jobs" json:"jobs" toml:"jobs"`
}

type RawPipelineEntry struct {
	Name     string                 `yaml:"name" json:"name" toml:"name"`
	Request  string                 `yaml:"request" json:"request" toml:"request"`
	Method   string                 `yaml:"method" json:"method" toml:"method"`
	Headers  map[string]string      `yaml:"headers" json:"headers" toml:"headers"`
	Body     *RawBody               `yaml:"body" json:"body" toml:"body"`
	Vars     map[string]interface{} `yaml:"vars" json:"vars" toml:"vars"`
	Capture  []RawCapture           `yaml:"capture" json:"capture" toml:"capture"`
	On       []RawOperation         `yaml:"on" json:"on" toml:"on"`
	Assert   []RawAssertion         `yaml:"assert" json:"assert" toml:"assert"`
	Delay    string                 `yaml:"delay" json:"delay" toml:"delay"`
	Repeats  uint64                 `yaml:"repeats" json:"repeats" toml:"repeats"`
}

// RawBody covers the four BodyEntry variants; exactly one field should be
// set (spec §6: raw/json/uri/base64).
type RawBody struct {
	Raw    *string     `yaml:"raw" json:"raw" toml:"raw"`
	JSON   interface{} `yaml:"json" json:"json" toml:"json"`
	URI    *string     `yaml:"uri" json:"uri" toml:"uri"`
	Base64 *string     `yaml:"base64" json:"base64" toml:"base64"`
}

type RawCapture struct {
	JSON     *string `yaml:"json" json:"json" toml:"json"`
	Regex    *string `yaml:"regex" json:"regex" toml:"regex"`
	Variable string  `yaml:"variable" json:"variable" toml:"variable"`
}

// RawVariable is the tagged Variable reference: {literal: ...} is a Literal;
// {template: "..."} renders against the Context; {path: "..."} walks a
// path. An entry with neither template nor path is built as a Literal.
type RawVariable struct {
	Literal  interface{} `yaml:"literal" json:"literal" toml:"literal"`
	Template *string     `yaml:"template" json:"template" toml:"template"`
	Path     *string     `yaml:"path" json:"path" toml:"path"`
}

type RawAssertion struct {
	Message  string       `yaml:"message" json:"message" toml:"message"`
	Equal    *RawEquality `yaml:"equal" json:"equal" toml:"equal"`
	NotEqual *RawEquality `yaml:"not_equal" json:"not_equal" toml:"not_equal"`
	Matches  *RawMatches  `yaml:"matches" json:"matches" toml:"matches"`
}

type RawEquality struct {
	A RawVariable `yaml:"a" json:"a" toml:"a"`
	B RawVariable `yaml:"b" json:"b" toml:"b"`
}

type RawMatches struct {
	Operand RawVariable `yaml:"operand" json:"operand" toml:"operand"`
	Pattern string      `yaml:"pattern" json:"pattern" toml:"pattern"`
}

// RawOperation covers Add/Sub/Mul/Div/Mod/Pow (sharing variable+value),
// PushCsv (variable+path), and Console (template).
type RawOperation struct {
	Add     *RawArith  `yaml:"add" json:"add" toml:"add"`
	Sub     *RawArith  `yaml:"sub" json:"sub" toml:"sub"`
	Mul     *RawArith  `yaml:"mul" json:"mul" toml:"mul"`
	Div     *RawArith  `yaml:"div" json:"div" toml:"div"`
	Mod     *RawArith  `yaml:"mod" json:"mod" toml:"mod"`
	Pow     *RawArith  `yaml:"pow" json:"pow" toml:"pow"`
	PushCsv *RawPushCsv `yaml:"push_csv" json:"push_csv" toml:"push_csv"`
	Console *string    `yaml:"console" json:"console" toml:"console"`
}

type RawArith struct {
	Variable string      `yaml:"variable" json:"variable" toml:"variable"`
	Value    interface{} `yaml:"value" json:"value" toml:"value"`
}

type RawPushCsv struct {
	Variable string `yaml:"variable" json:"variable" toml:"variable"`
	Path     string `yaml:"path" json:"path" toml:"path"`
}

type RawResource struct {
	File string `yaml:"file" json:"file" toml:"file"`
	Name string `yaml:"name" json:"name" toml:"name"`
}
