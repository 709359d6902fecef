// Package config loads YAML configuration for transient bar hosts.
//
// Durations are written as Go duration strings ("2.75s", "150ms") or the
// literal "indefinite" to disable auto-dismiss:
//
//	defaultDuration: 2.75s
//	animationDuration: 150ms
//	animationTimeout: 5s
//	eventLog: /var/log/app/bars.blog
//	pauseOnScreenReader: true
//
// Missing fields fall back to the defaults from DefaultConfig.
package config
