// Package dynamic loads function packages through github.com/aura-studio/dynamic.
package dynamic

import (
	"errors"

	"github.com/aura-studio/dynamic"
	"github.com/sirupsen/logrus"
)

var ErrNoFunction = errors.New("dynamic: no function package configured")

type Package struct {
	Package string
	Version string
	Tunnel  dynamic.Tunnel
}

type Dynamic struct {
	*Options
}

func NewDynamic(opts ...Option) *Dynamic {
	d := &Dynamic{
		Options: NewOptions(opts...),
	}

	d.InstallPackages()

	return d
}

func (d *Dynamic) InstallPackages() {
	if d.Os != "" {
		dynamic.DynamicOS = d.Os
	}
	if d.Arch != "" {
		dynamic.DynamicArch = d.Arch
	}
	if d.Compiler != "" {
		dynamic.DynamicCompiler = d.Compiler
	}
	if d.Variant != "" {
		dynamic.DynamicVariant = d.Variant
	}

	dynamic.UseWarehouse(d.LocalWarehouse, d.RemoteWarehouse)

	if d.PackageNamespace != "" {
		dynamic.UseNamespace(d.PackageNamespace)
	}

	if d.PackageDefaultVersion != "" {
		dynamic.UseDefaultVersion(d.PackageDefaultVersion)
	}

	for _, p := range d.StaticPackages {
		dynamic.RegisterPackage(p.Package, p.Version, p.Tunnel)
	}

	for _, p := range d.PreloadPackages {
		if _, err := dynamic.GetPackage(p.Package, p.Version); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"namespace": d.PackageNamespace,
				"package":   p.Package,
				"version":   p.Version,
			}).Warn("[dynamic] preload package failed")
		}
	}
}

func (d *Dynamic) GetPackage(pkg string, version string) (dynamic.Tunnel, error) {
	return dynamic.GetPackage(pkg, version)
}

// Function returns the tunnel of the configured function package.
func (d *Dynamic) Function() (dynamic.Tunnel, error) {
	if d.Options.Function == nil || d.Options.Function.Package == "" {
		return nil, ErrNoFunction
	}
	return d.GetPackage(d.Options.Function.Package, d.Options.Function.Version)
}
