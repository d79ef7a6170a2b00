//go:build linux
// +build linux

package wext

import (
	"runtime"
	"unsafe"

	"golang.org/x/sys/unix"
)

type iwreq struct {
	name [unix.IFNAMSIZ]byte
	u    [unionSize]byte
}

type iwreqPoint struct {
	name    [unix.IFNAMSIZ]byte
	pointer unsafe.Pointer
	length  uint16
	flags   uint16
	_       [unionSize - unsafe.Sizeof(uintptr(0)) - 4]byte
}

// Conn is a datagram socket used to issue wireless ioctls.
type Conn struct {
	fd int
}

// Dial opens the control socket.
func Dial() (*Conn, error) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_DGRAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, err
	}
	return &Conn{fd: fd}, nil
}

func (c *Conn) Close() error { return unix.Close(c.fd) }

// Control issues cmd and copies the kernel's answer back into r.
func (c *Conn) Control(cmd uint, r *Request) error {
	if IsPoint(cmd) {
		var raw iwreqPoint
		copy(raw.name[:unix.IFNAMSIZ-1], r.Name)
		if len(r.Data) > 0 {
			raw.pointer = unsafe.Pointer(&r.Data[0])
		}
		raw.length, raw.flags = r.Length, r.Flags
		err := c.ioctl(cmd, unsafe.Pointer(&raw))
		runtime.KeepAlive(r.Data)
		r.Length, r.Flags = raw.length, raw.flags
		return err
	}
	var raw iwreq
	copy(raw.name[:unix.IFNAMSIZ-1], r.Name)
	raw.u = r.u
	err := c.ioctl(cmd, unsafe.Pointer(&raw))
	r.u = raw.u
	return err
}

func (c *Conn) ioctl(cmd uint, p unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(c.fd), uintptr(cmd), uintptr(p))
	if errno != 0 {
		return errno
	}
	return nil
}
