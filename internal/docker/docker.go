// Package docker provides access to files in docker containers.
package docker

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
)

// Client is a docker client
type Client struct {
	clt        *client.Client
	debugLogFn func(string, ...any)
}

var defLogFn = func(string, ...any) {}

// NewClient initializes a new docker client.
// The following environment variables are respected:
// DOCKER_TLS_VERIFY
// DOCKER_CERT_PATH
// DOCKER_HOST to set the url to the docker server.
// DOCKER_API_VERSION to set the version of the API to reach, leave empty for latest.
func NewClient(debugLogFn func(string, ...any)) (*Client, error) {
	logFn := defLogFn
	if debugLogFn != nil {
		logFn = debugLogFn
	}

	dockerClt, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, err
	}

	return &Client{
		clt:        dockerClt,
		debugLogFn: logFn,
	}, nil
}

// ContainerID returns the ID of the container with the given name or ID.
// An error is returned if the container does not exist or is not running.
func (c *Client) ContainerID(ctx context.Context, nameOrID string) (string, error) {
	resp, err := c.clt.ContainerInspect(ctx, nameOrID)
	if err != nil {
		return "", err
	}

	if resp.ContainerJSONBase == nil {
		return "", errors.New("docker daemon returned an empty container description")
	}

	if resp.State == nil || !resp.State.Running {
		return "", fmt.Errorf("container %s is not running", nameOrID)
	}

	c.debugLogFn("docker: container %q has ID %s", nameOrID, resp.ID)

	return resp.ID, nil
}

// ContainerStatPath returns stat information about a path in a container.
func (c *Client) ContainerStatPath(ctx context.Context, containerID, path string) (container.PathStat, error) {
	c.debugLogFn("docker: stat %s:%s", containerID, path)
	return c.clt.ContainerStatPath(ctx, containerID, path)
}

// CopyFromContainer returns a tar stream of path in a container.
func (c *Client) CopyFromContainer(ctx context.Context, containerID, path string) (io.ReadCloser, container.PathStat, error) {
	c.debugLogFn("docker: copying %s:%s", containerID, path)
	return c.clt.CopyFromContainer(ctx, containerID, path)
}

// Close closes the connection to the docker daemon.
func (c *Client) Close() error {
	return c.clt.Close()
}
