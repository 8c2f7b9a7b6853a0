package datainfo

// CommandType describes a callable with an optional argument type and an
// optional result type. It carries no values of its own, so the value
// conversions all fail.
type CommandType struct {
	sealable
	argument DataType
	result   DataType
}

// NewCommandType returns a command type. Either type may be nil for a
// command without argument or result.
func NewCommandType(argument, result DataType) *CommandType {
	dt := &CommandType{argument: argument, result: result}
	dt.seal()
	return dt
}

// Argument returns the argument type, or nil.
func (dt *CommandType) Argument() DataType { return dt.argument }

// Result returns the result type, or nil.
func (dt *CommandType) Result() DataType { return dt.result }

func (dt *CommandType) Coerce(value any) (any, error) {
	return nil, programmingf("a command is not a value")
}

func (dt *CommandType) Validate(value any) (any, error) {
	return nil, programmingf("a command is not a value")
}

func (dt *CommandType) ExportValue(value any) (any, error) {
	return nil, programmingf("a command can not be transported as a value")
}

func (dt *CommandType) ImportValue(wire any) (any, error) {
	return nil, programmingf("a command can not be transported as a value")
}

func (dt *CommandType) FormatValue(value any, unit ...string) string {
	return shortRepr(value)
}

func (dt *CommandType) FromString(text string) (any, error) {
	return nil, programmingf("a command is not a value")
}

func (dt *CommandType) ExportDatatype() DataInfo {
	info := DataInfo{"type": "command"}
	if dt.argument != nil {
		info["argument"] = dt.argument.ExportDatatype()
	}
	if dt.result != nil {
		info["result"] = dt.result.ExportDatatype()
	}
	return info
}

func (dt *CommandType) Copy() DataType {
	c := &CommandType{}
	if dt.argument != nil {
		c.argument = dt.argument.Copy()
	}
	if dt.result != nil {
		c.result = dt.result.Copy()
	}
	return c
}

// Compatible checks the argument covariantly and the result
// contravariantly: whoever calls through this type must be understood by
// other, and whatever other returns must be understood here.
func (dt *CommandType) Compatible(other DataType) error {
	o, ok := other.(*CommandType)
	if !ok {
		return incompatible(dt, other, nil)
	}
	if (dt.argument == nil) != (o.argument == nil) || (dt.result == nil) != (o.result == nil) {
		return incompatible(dt, other, nil)
	}
	if dt.argument != nil {
		if err := dt.argument.Compatible(o.argument); err != nil {
			return incompatible(dt, other, err)
		}
	}
	if dt.result != nil {
		if err := o.result.Compatible(dt.result); err != nil {
			return incompatible(dt, other, err)
		}
	}
	return nil
}

func (dt *CommandType) SetProperty(key string, value any) error {
	if err := dt.assertOpen(); err != nil {
		return err
	}
	return programmingf("command has no property %q", key)
}

func (dt *CommandType) CheckProperties() error {
	if dt.argument != nil {
		if err := dt.argument.CheckProperties(); err != nil {
			return err
		}
	}
	if dt.result != nil {
		if err := dt.result.CheckProperties(); err != nil {
			return err
		}
	}
	dt.seal()
	return nil
}

func (dt *CommandType) SetMainUnit(unit string) error {
	if dt.argument != nil {
		if err := dt.argument.SetMainUnit(unit); err != nil {
			return err
		}
	}
	if dt.result != nil {
		if err := dt.result.SetMainUnit(unit); err != nil {
			return err
		}
	}
	return nil
}
