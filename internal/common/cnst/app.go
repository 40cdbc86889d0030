package cnst

const (
	AppName     = "techmine"
	CommandName = "apiserver"
	CtlName     = "techminectl"

	ApiServerYaml = "apiserver.yaml"
	CtlYaml       = "techminectl.yaml"
	SessionFile   = "session.yaml"
)
