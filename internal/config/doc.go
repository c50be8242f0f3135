// Package config provides configuration parsing for hookdom.
//
// The configuration is stored in hookdom.json. Every field is optional;
// missing fields take the defaults of New.
//
// # Configuration File Structure
//
//	{
//	  "server": {
//	    "host": "localhost",
//	    "port": 8080,
//	    "tick": "1s",
//	    "writeTimeout": "10s",
//	    "shutdownTimeout": "5s"
//	  },
//	  "log": {
//	    "level": "info",
//	    "format": "text"
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "namespace": "hookdom"
//	  },
//	  "debug": {
//	    "hookOrderCheck": false
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.LoadFile("hookdom.json")
//	if err != nil {
//	    return err
//	}
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
package config
