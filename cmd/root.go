package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jgrover/DroidWatch/config"
	"github.com/jgrover/DroidWatch/pkg/cmd/cli"
)

var cfgFile string
var c = new(config.Config)
var cmdHandler = cli.NewHandler(c)

var (
	Version   = "dev-master"
	BuildTime = "undefined"
	GitHash   = "undefined"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "droidwatch",
	Short: "DroidWatch device telemetry agent",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(cmd.UsageString())
		os.Exit(2)
	},
}

// Execute runs the agent CLI and is called by main.main()
func Execute() {
	c.BuildTime = BuildTime
	c.BuildVersion = Version
	c.BuildHash = GitHash

	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// enable ability to specify config file via flag
		viper.SetConfigFile(cfgFile)
	} else {
		path := absPathify("$HOME")
		if _, err := os.Stat(filepath.Join(path, ".droidwatch.yml")); err != nil {
			_, _ = os.Create(filepath.Join(path, ".droidwatch.yml"))
		}

		viper.SetConfigType("yaml")
		viper.SetConfigName(".droidwatch") // name of config file (without extension)
		viper.AddConfigPath("$HOME")       // adding home directory as first search path
	}
	viper.AutomaticEnv() // read in environment variables that match

	// Fetch settings
	viper.BindEnv("DATABASE_PATH")
	viper.SetDefault("DATABASE_PATH", filepath.Join(absPathify("$HOME"), ".droidwatch", "results.db"))

	viper.BindEnv("PLATFORM_DIR")
	viper.SetDefault("PLATFORM_DIR", filepath.Join(absPathify("$HOME"), ".droidwatch", "platform"))

	viper.BindEnv("SERVER_URL")
	viper.SetDefault("SERVER_URL", "https://localhost:8443/upload")

	viper.BindEnv("CERT_FILE")
	viper.SetDefault("CERT_FILE", filepath.Join(absPathify("$HOME"), ".droidwatch", "collector.crt"))

	viper.BindEnv("DEVICE_ID")
	viper.SetDefault("DEVICE_ID", defaultDeviceID())

	viper.BindEnv("HTTP_TIMEOUT")
	viper.SetDefault("HTTP_TIMEOUT", 60)

	viper.BindEnv("TRANSFER_INTERVAL")
	viper.SetDefault("TRANSFER_INTERVAL", 7200)

	viper.BindEnv("CALL_LOG_INTERVAL")
	viper.SetDefault("CALL_LOG_INTERVAL", 60)

	viper.BindEnv("SMS_INTERVAL")
	viper.SetDefault("SMS_INTERVAL", 5)

	viper.BindEnv("BROWSER_HISTORY_INTERVAL")
	viper.SetDefault("BROWSER_HISTORY_INTERVAL", 3600)

	viper.BindEnv("CONTACTS_INTERVAL")
	viper.SetDefault("CONTACTS_INTERVAL", 3600)

	viper.BindEnv("CALENDAR_INTERVAL")
	viper.SetDefault("CALENDAR_INTERVAL", 3600)

	viper.BindEnv("COLLECTOR_ADDR")
	viper.SetDefault("COLLECTOR_ADDR", ":8443")

	viper.BindEnv("COLLECTOR_SPOOL_DIR")
	viper.SetDefault("COLLECTOR_SPOOL_DIR", filepath.Join(absPathify("$HOME"), ".droidwatch", "spool"))

	viper.BindEnv("COLLECTOR_CERT_FILE")
	viper.SetDefault("COLLECTOR_CERT_FILE", "")

	viper.BindEnv("COLLECTOR_KEY_FILE")
	viper.SetDefault("COLLECTOR_KEY_FILE", "")

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		fmt.Printf(`Config file not found because "%s"`, err)
		fmt.Println("")
	}

	if err := viper.Unmarshal(c); err != nil {
		log.Fatal(fmt.Sprintf("Could not read config because %s.", err))
	}
}

func defaultDeviceID() string {
	hostname, err := os.Hostname()
	if err != nil {
		return "unknown-device"
	}
	return hostname
}

func absPathify(inPath string) string {
	if strings.HasPrefix(inPath, "$HOME") {
		inPath = userHomeDir() + inPath[5:]
	}

	if strings.HasPrefix(inPath, "$") {
		end := strings.Index(inPath, string(os.PathSeparator))
		inPath = os.Getenv(inPath[1:end]) + inPath[end:]
	}

	if filepath.IsAbs(inPath) {
		return filepath.Clean(inPath)
	}

	p, err := filepath.Abs(inPath)
	if err == nil {
		return filepath.Clean(p)
	}
	return ""
}

func userHomeDir() string {
	if runtime.GOOS == "windows" {
		home := os.Getenv("HOMEDRIVE") + os.Getenv("HOMEPATH")
		if home == "" {
			home = os.Getenv("USERPROFILE")
		}
		return home
	}
	return os.Getenv("HOME")
}
