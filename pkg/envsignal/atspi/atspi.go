// Package atspi provides an envsignal.Source backed by the desktop
// accessibility bus.
//
// It watches org.a11y.Status.ScreenReaderEnabled on the session bus, so a
// bound scheduler pauses auto-dismiss while a screen reader is active and
// resumes when it stops. Requires a session bus; hosts without one should
// fall back to another Source.
package atspi

import (
	"context"

	"github.com/godbus/dbus/v5"
)

const (
	busName       = "org.a11y.Bus"
	objectPath    = dbus.ObjectPath("/org/a11y/bus")
	statusIface   = "org.a11y.Status"
	screenRdrProp = statusIface + ".ScreenReaderEnabled"
	propsIface    = "org.freedesktop.DBus.Properties"
)

// Source reports whether a screen reader is active on the session bus.
type Source struct {
	conn *dbus.Conn
}

// New connects to the session bus.
func New() (*Source, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, err
	}
	return &Source{conn: conn}, nil
}

// NewWithConn wraps an existing bus connection. The caller keeps ownership
// of the connection.
func NewWithConn(conn *dbus.Conn) *Source {
	return &Source{conn: conn}
}

// Watch delivers the current screen reader state and subsequent changes
// until ctx ends.
func (s *Source) Watch(ctx context.Context) (<-chan bool, error) {
	if err := s.conn.AddMatchSignalContext(ctx,
		dbus.WithMatchInterface(propsIface),
		dbus.WithMatchMember("PropertiesChanged"),
		dbus.WithMatchObjectPath(objectPath),
	); err != nil {
		return nil, err
	}

	variant, err := s.conn.Object(busName, objectPath).GetProperty(screenRdrProp)
	if err != nil {
		return nil, err
	}
	enabled, _ := variant.Value().(bool)

	signals := make(chan *dbus.Signal, 16)
	s.conn.Signal(signals)

	out := make(chan bool, 1)
	out <- enabled

	go func() {
		defer close(out)
		defer s.conn.RemoveSignal(signals)

		for {
			select {
			case <-ctx.Done():
				return
			case sig, ok := <-signals:
				if !ok {
					return
				}
				if v, ok := screenReaderChange(sig); ok {
					select {
					case out <- v:
					case <-ctx.Done():
						return
					}
				}
			}
		}
	}()

	return out, nil
}

// screenReaderChange extracts the new ScreenReaderEnabled value from a
// PropertiesChanged signal, if present.
func screenReaderChange(sig *dbus.Signal) (bool, bool) {
	if sig == nil || sig.Path != objectPath || len(sig.Body) < 2 {
		return false, false
	}
	iface, ok := sig.Body[0].(string)
	if !ok || iface != statusIface {
		return false, false
	}
	changed, ok := sig.Body[1].(map[string]dbus.Variant)
	if !ok {
		return false, false
	}
	variant, ok := changed["ScreenReaderEnabled"]
	if !ok {
		return false, false
	}
	v, ok := variant.Value().(bool)
	return v, ok
}
