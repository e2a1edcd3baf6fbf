package core

import (
	"errors"
	"fmt"
	"sync"
)

/**
 * @brief Describes a job to be run by the JobSystem.
 */
type JobTask struct {
	/** @brief Used in logs only. */
	Name string
	/** @brief Data passed to OnStart. */
	InputParams interface{}
	/** @brief Invoked when the job starts. Required. */
	OnStart func(params interface{}) error
	/** @brief Invoked when OnStart succeeded. Optional. */
	OnComplete func()
	/** @brief Invoked with the error returned by OnStart. Optional. */
	OnFailure func(err error)
	/** @brief Invoked after OnComplete or OnFailure. Optional. */
	OnCompletionCallback func()
}

type JobSystem struct {
	numWorkers int
	jobQueue   chan JobTask
	wg         sync.WaitGroup

	mutex    sync.Mutex
	isClosed bool
}

var ErrNoWorkers = fmt.Errorf("attempting to create worker pool with less than 1 worker")
var ErrNegativeChannelSize = fmt.Errorf("attempting to create worker pool with a negative channel size")
var ErrJobSystemClosed = errors.New("job system is shut down")

func NewJobSystem(numWorkers int, channelSize int) (*JobSystem, error) {
	if numWorkers <= 0 {
		return nil, ErrNoWorkers
	}
	if channelSize < 0 {
		return nil, ErrNegativeChannelSize
	}

	js := &JobSystem{
		numWorkers: numWorkers,
		jobQueue:   make(chan JobTask, channelSize),
	}

	js.start()

	return js, nil
}

func (js *JobSystem) start() {
	for i := 0; i < js.numWorkers; i++ {
		js.wg.Add(1)
		go func() {
			defer js.wg.Done()
			for job := range js.jobQueue {
				if err := job.OnStart(job.InputParams); err != nil {
					LogError("job %s failed: %s", job.Name, err)
					if job.OnFailure != nil {
						job.OnFailure(err)
					}
				} else if job.OnComplete != nil {
					job.OnComplete()
				}

				if job.OnCompletionCallback != nil {
					job.OnCompletionCallback()
				}
			}
		}()
	}
}

// NumWorkers returns the size of the pool.
func (js *JobSystem) NumWorkers() int {
	return js.numWorkers
}

/**
 * @brief Shuts the job system down. Queued jobs are drained first.
 */
func (js *JobSystem) Shutdown() error {
	js.mutex.Lock()
	if js.isClosed {
		js.mutex.Unlock()
		return nil
	}
	js.isClosed = true
	close(js.jobQueue)
	js.mutex.Unlock()

	js.wg.Wait()
	return nil
}

/**
 * @brief Submits the provided job to be queued for execution.
 * @param jt The description of the job to be executed.
 */
func (js *JobSystem) Submit(jt JobTask) error {
	js.mutex.Lock()
	defer js.mutex.Unlock()
	if js.isClosed {
		return ErrJobSystemClosed
	}
	js.jobQueue <- jt
	return nil
}

/**
 * @brief Submits every job and blocks until all of them finished. Callbacks
 * already set on the tasks still run. Returns the first failure.
 */
func (js *JobSystem) SubmitAndWait(tasks ...JobTask) error {
	var (
		batch    sync.WaitGroup
		errMutex sync.Mutex
		firstErr error
	)

	for _, t := range tasks {
		task := t
		onFailure := task.OnFailure
		onDone := task.OnCompletionCallback
		task.OnFailure = func(err error) {
			errMutex.Lock()
			if firstErr == nil {
				firstErr = err
			}
			errMutex.Unlock()
			if onFailure != nil {
				onFailure(err)
			}
		}
		task.OnCompletionCallback = func() {
			if onDone != nil {
				onDone()
			}
			batch.Done()
		}

		batch.Add(1)
		if err := js.Submit(task); err != nil {
			batch.Done()
			batch.Wait()
			return err
		}
	}

	batch.Wait()
	return firstErr
}
