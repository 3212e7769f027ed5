package cmd

const DefaultCfgFile = "/etc/jukebox/jukebox-cli.yaml"

type Config struct {
	Jukeboxd JukeboxdConf
}

type JukeboxdConf struct {
	BaseUrl    string `validate:"required,url"`
	ApiKey     string `validate:"required"`
	AuthMethod string `validate:"required,oneof=X-API-Key Authorization none"`
}
