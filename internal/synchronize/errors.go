package synchronize

import "errors"

// ErrTaskNotCompleted blocks the merge of a pull request whose task is still open
var ErrTaskNotCompleted = errors.New("asana task is not yet completed, blocking merge")
