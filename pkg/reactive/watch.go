package reactive

// Watch runs fn immediately and again, on the next Flush, whenever anything
// it read changes. Each run re-subscribes from scratch. The returned
// function cancels the watch.
func Watch(fn func()) (cancel func()) {
	d := NewDependent(nil)
	d.SetCallback(func() error {
		d.Track(fn)
		return nil
	})
	d.Track(fn)
	return d.Cancel
}
