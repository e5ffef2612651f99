package cli

// Options are the tenantctl flags; unset values fall back to the TENANTADMIN_ environment.
type Options struct {
	URL       string `short:"u" long:"url" description:"api base url"`
	Session   string `short:"s" long:"session" description:"session record url (file path or afs url)"`
	Redis     string `short:"r" long:"redis" description:"redis address storing the session"`
	CookieJar string `short:"j" long:"jar" description:"cookie jar file"`
	EnvFile   string `long:"env-file" description:"dotenv file" default:".env"`
	LogLevel  string `short:"l" long:"log-level" description:"log level"`
	Pretty    bool   `long:"pretty" description:"human readable logs"`

	Login   LoginOptions   `command:"login" description:"sign in and store the session"`
	Logout  struct{}       `command:"logout" description:"revoke and clear the session"`
	WhoAmI  struct{}       `command:"whoami" description:"print the signed in user"`
	Get     GetOptions     `command:"get" description:"GET an api path and print the response"`
	Tenants TenantsOptions `command:"tenants" description:"list tenants"`
}

type LoginOptions struct {
	Email       string `short:"m" long:"email" description:"account email"`
	Password    string `short:"p" long:"password" description:"account password"`
	Tenant      string `short:"t" long:"tenant" description:"tenant slug to scope the session to"`
	Credentials string `short:"c" long:"credentials" description:"scy secret url holding username and password"`
	Key         string `short:"k" long:"key" description:"secret encryption key, e.g. blowfish://default"`
}

type GetOptions struct {
	Args struct {
		Path string `positional-arg-name:"path" required:"yes"`
	} `positional-args:"yes"`
	Query []string `short:"q" long:"query" description:"query parameter as name=value"`
}

type TenantsOptions struct {
	Search string `short:"q" long:"search" description:"filter by name"`
}
