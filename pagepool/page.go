// Package pagepool implements the page allocator external collaborator
// named in spec.md §6: alloc_zeroed_page()/free_page(ptr). Each TCB lives
// at the base of a page-aligned region whose remainder is the thread's
// kernel stack, so allocation here really does need a page-granular,
// zero-filled region rather than an ordinary heap allocation.
package pagepool

import (
	"sync"

	"golang.org/x/sys/unix"

	"kthreads/errors"
)

// Size is the page size backing every TCB, matching spec.md §3's "one
// page, typically 4 KiB".
const Size = 4096

// Page is a zeroed, page-aligned region obtained via anonymous mmap. The
// first bytes hold the TCB struct; the remainder is the stack, growing
// downward from the top, exactly as spec.md §4.D describes.
type Page struct {
	mem []byte
}

// Bytes returns the backing memory. TCB fields live at the base;
// anything above is available for stack use.
func (p *Page) Bytes() []byte { return p.mem }

// Pool allocates and frees whole pages via golang.org/x/sys/unix mmap,
// the same low-level primitive the teacher repo reaches for whenever it
// needs raw OS memory/process control instead of an ordinary Go
// allocation.
type Pool struct {
	mu        sync.Mutex
	allocated int
}

// New returns an empty pool.
func New() *Pool { return &Pool{} }

// AllocZeroed returns a new zero-filled page, or ErrAllocationFailed if
// the underlying mmap call fails. Matches spec.md §6's
// alloc_zeroed_page() contract, with create() surfacing the failure as
// TID_ERROR rather than panicking — it is the one recoverable error
// named in §7.
func (p *Pool) AllocZeroed() (*Page, error) {
	mem, err := unix.Mmap(-1, 0, Size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, errors.Wrap(err, errors.KindAllocation, "alloc_zeroed_page")
	}
	p.mu.Lock()
	p.allocated++
	p.mu.Unlock()
	return &Page{mem: mem}, nil
}

// Free releases a page back to the OS. Called exactly once per page, by
// the thread's successor after it has observed the page's owner is
// DYING — never by the page's own owner (spec.md §4.F, §9).
func (p *Pool) Free(pg *Page) {
	if pg == nil || pg.mem == nil {
		return
	}
	_ = unix.Munmap(pg.mem)
	pg.mem = nil
	p.mu.Lock()
	p.allocated--
	p.mu.Unlock()
}

// Allocated returns the number of pages currently outstanding, used by
// print_stats.
func (p *Pool) Allocated() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.allocated
}
