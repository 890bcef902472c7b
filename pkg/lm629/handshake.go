package lm629

// Callers hold c.lock for everything in this file.

// awaitReady polls the busy bit on the command port.
func (c *Channel) awaitReady() error {
	for i := 0; i < BusyRetryLimit; i++ {
		st, err := c.readStatus()
		if err != nil {
			return err
		}
		if !st.Busy() {
			return nil
		}
	}
	return ErrBusy
}

func (c *Channel) readStatus() (Status, error) {
	val, err := c.bus.ReadPort(c.cmdPort)
	if err != nil {
		return 0, &busFault{err: err}
	}
	return Status(val), nil
}

func (c *Channel) writeCmd(op byte) error {
	if err := c.bus.WritePort(c.cmdPort, op); err != nil {
		return &busFault{err: err}
	}
	return nil
}

func (c *Channel) writeData(data []byte) error {
	for _, b := range data {
		if err := c.bus.WritePort(c.dataPort, b); err != nil {
			return &busFault{err: err}
		}
	}
	return nil
}

func (c *Channel) readData(buf []byte) error {
	for n := range buf {
		val, err := c.bus.ReadPort(c.dataPort)
		if err != nil {
			return &busFault{err: err}
		}
		buf[n] = val
	}
	return nil
}

// command writes op, then each data group preceded by a handshake,
// and finishes with a handshake.
func (c *Channel) command(op byte, groups ...[]byte) error {
	if err := c.writeCmd(op); err != nil {
		return err
	}
	for _, data := range groups {
		if err := c.awaitReady(); err != nil {
			return err
		}
		if err := c.writeData(data); err != nil {
			return err
		}
	}
	return c.awaitReady()
}

// query issues a read command and returns words 16-bit groups,
// each preceded by a handshake, most significant byte first.
func (c *Channel) query(op byte, words int) ([]byte, error) {
	if err := c.awaitReady(); err != nil {
		return nil, err
	}
	if err := c.writeCmd(op); err != nil {
		return nil, err
	}
	buf := make([]byte, words*2)
	for n := 0; n < words; n++ {
		if err := c.awaitReady(); err != nil {
			return nil, err
		}
		if err := c.readData(buf[n*2 : n*2+2]); err != nil {
			return nil, err
		}
	}
	if err := c.awaitReady(); err != nil {
		return nil, err
	}
	return buf, nil
}
