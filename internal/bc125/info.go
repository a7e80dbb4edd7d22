// internal/bc125/info.go
package bc125

// DeviceModel is the scanner's model string. Read only.
type DeviceModel struct {
	Model string
}

func (m *DeviceModel) Kind() Kind    { return KindDeviceModel }
func (m *DeviceModel) Indexed() bool { return false }

func (m *DeviceModel) FetchCommand(index ...int) (string, error) {
	if _, err := resolveIndex(m, index); err != nil {
		return "", err
	}
	return joinCommand(KindDeviceModel), nil
}

func (m *DeviceModel) ParseResponse(raw string) error {
	fields, err := splitResponse(KindDeviceModel, 1, raw)
	if err != nil {
		return err
	}
	m.Model = fields[0]
	return nil
}

func (m *DeviceModel) ToDict() Dict {
	return Dict{"model": m.Model}
}

func (m *DeviceModel) FromDict(d Dict) error {
	if err := requireKeys(KindDeviceModel, d, "model"); err != nil {
		return err
	}
	model, err := dictString(KindDeviceModel, d, "model")
	if err != nil {
		return err
	}
	m.Model = model
	return nil
}

// FirmwareVersion is the scanner's firmware revision string. Read only.
type FirmwareVersion struct {
	Version string
}

func (v *FirmwareVersion) Kind() Kind    { return KindFirmwareVersion }
func (v *FirmwareVersion) Indexed() bool { return false }

func (v *FirmwareVersion) FetchCommand(index ...int) (string, error) {
	if _, err := resolveIndex(v, index); err != nil {
		return "", err
	}
	return joinCommand(KindFirmwareVersion), nil
}

func (v *FirmwareVersion) ParseResponse(raw string) error {
	fields, err := splitResponse(KindFirmwareVersion, 1, raw)
	if err != nil {
		return err
	}
	v.Version = fields[0]
	return nil
}

func (v *FirmwareVersion) ToDict() Dict {
	return Dict{"version": v.Version}
}

func (v *FirmwareVersion) FromDict(d Dict) error {
	if err := requireKeys(KindFirmwareVersion, d, "version"); err != nil {
		return err
	}
	version, err := dictString(KindFirmwareVersion, d, "version")
	if err != nil {
		return err
	}
	v.Version = version
	return nil
}

// ensure the identity variants keep their fetch/parse + dict pairing.
var (
	_ Fetcher       = (*DeviceModel)(nil)
	_ DictConverter = (*DeviceModel)(nil)
	_ Fetcher       = (*FirmwareVersion)(nil)
	_ DictConverter = (*FirmwareVersion)(nil)
)
