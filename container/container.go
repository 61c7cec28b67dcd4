package container

// Container is a []byte slice on steroids, allowing for quick appending and
// compiling of byte data without copying on every append.
type Container struct {
	compartments [][]byte
}

// New creates a new container with an optional initial []byte slice. Data will NOT be copied.
func New(data ...[]byte) *Container {
	return &Container{
		compartments: data,
	}
}

// Append appends the given data. Data will NOT be copied.
func (c *Container) Append(data []byte) {
	c.compartments = append(c.compartments, data)
}

// AppendByte appends a single byte.
func (c *Container) AppendByte(data byte) {
	c.compartments = append(c.compartments, []byte{data})
}

// Prepend prepends data. Data will NOT be copied.
func (c *Container) Prepend(data []byte) {
	c.compartments = append([][]byte{data}, c.compartments...)
}

// Length returns the full length of all bytes held by the container.
func (c *Container) Length() (length int) {
	for _, compartment := range c.compartments {
		length += len(compartment)
	}
	return
}

// CompileData concatenates all bytes held by the container and returns it as
// one single []byte slice. Data is NOT consumed.
func (c *Container) CompileData() []byte {
	if len(c.compartments) == 0 {
		return nil
	}
	if len(c.compartments) != 1 {
		newBuf := make([]byte, c.Length())
		copyBuf := newBuf
		for _, compartment := range c.compartments {
			copy(copyBuf, compartment)
			copyBuf = copyBuf[len(compartment):]
		}
		c.compartments = [][]byte{newBuf}
	}
	return c.compartments[0]
}

// Reset empties the container.
func (c *Container) Reset() {
	c.compartments = nil
}
