// Package all registers every built-in store family with the process-wide
// family registry. Blank-import it from binaries that should support the
// full backend set:
//
//	import _ "github.com/gridforge/gridstore/stores/all"
//
// Binaries that only need specific backends can blank-import the individual
// store packages instead.
package all

import (
	_ "github.com/gridforge/gridstore/stores/boltstore"
	_ "github.com/gridforge/gridstore/stores/filestore"
	_ "github.com/gridforge/gridstore/stores/memorystore"
	_ "github.com/gridforge/gridstore/stores/s3store"
	_ "github.com/gridforge/gridstore/stores/vaultstore"
)
